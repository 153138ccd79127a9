// Package jobrepo provides data transfer objects and mapping functions for job persistence.
// This package implements the repository pattern for the job domain aggregate, handling
// the conversion between domain entities and database representations.
package jobrepo

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"fieldwork/internal/core/domain/model/job"
	"fieldwork/internal/core/domain/model/kernel"
)

// JobDTO represents the database structure for persisting job aggregates.
// Statuses and classifications are stored as their wire names so ad-hoc SQL
// stays readable; the job number is a nullable unique column because numbers
// are sparse and globally unique.
type JobDTO struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey"`
	JobNumber        *string    `gorm:"type:varchar(16);uniqueIndex"`
	JobType          string     `gorm:"type:varchar(16)"`
	Priority         string     `gorm:"type:varchar(16)"`
	Address          AddressDTO `gorm:"embedded;embeddedPrefix:address_"`
	Latitude         *float64
	Longitude        *float64
	AssignedWorkerID uuid.UUID `gorm:"type:uuid;index:idx_jobs_worker_day"`
	ScheduledDate    time.Time `gorm:"type:date;index:idx_jobs_worker_day"`
	SequenceNumber   *int      `gorm:"index"`
	Status           string    `gorm:"type:varchar(16);index"`
	Notes            string

	Evidence       datatypes.JSON `gorm:"type:jsonb"`
	StartLatitude  *float64
	StartLongitude *float64
	EndLatitude    *float64
	EndLongitude   *float64

	DistanceTraveled *float64
	Points           float64
	Award            float64
	ValidNoAccess    bool
	CompletedDate    *time.Time
}

// TableName specifies the database table name for job entities.
// Overrides GORM's default naming convention to use "jobs".
func (JobDTO) TableName() string {
	return "jobs"
}

// AddressDTO represents the embedded postal address within the jobs table.
type AddressDTO struct {
	Street  string `gorm:"type:varchar(255)"`
	City    string `gorm:"type:varchar(128)"`
	State   string `gorm:"type:varchar(64)"`
	ZipCode string `gorm:"type:varchar(16);index"`
	Country string `gorm:"type:varchar(64)"`
}

// evidenceDTO is the JSON shape of the completion evidence column. Locations
// inside the evidence are flattened to plain coordinates.
type evidenceDTO struct {
	RegisterValues   []string     `json:"register_values,omitempty"`
	RegisterIDs      []string     `json:"register_ids,omitempty"`
	ElectricReading  string       `json:"electric_reading,omitempty"`
	GasReading       string       `json:"gas_reading,omitempty"`
	WaterReading     string       `json:"water_reading,omitempty"`
	Photos           []string     `json:"photos,omitempty"`
	NoAccessReason   string       `json:"no_access_reason,omitempty"`
	CustomerRead     bool         `json:"customer_read,omitempty"`
	LocationHistory  [][2]float64 `json:"location_history,omitempty"`
	DistanceTraveled *float64     `json:"distance_traveled,omitempty"`
}

// fromDomain converts a job domain aggregate to its database representation.
func fromDomain(aggregate *job.Job) (JobDTO, error) {
	dto := JobDTO{
		ID:       aggregate.ID().Bytes(),
		JobType:  aggregate.JobType().String(),
		Priority: aggregate.Priority().String(),
		Address: AddressDTO{
			Street:  aggregate.Address().Street(),
			City:    aggregate.Address().City(),
			State:   aggregate.Address().State(),
			ZipCode: aggregate.Address().ZipCode(),
			Country: aggregate.Address().Country(),
		},
		AssignedWorkerID: aggregate.AssignedWorker().Bytes(),
		ScheduledDate:    aggregate.ScheduledDate(),
		SequenceNumber:   aggregate.SequenceNumber(),
		Status:           aggregate.Status().String(),
		Notes:            aggregate.Notes(),
		DistanceTraveled: aggregate.DistanceTraveled(),
		Points:           aggregate.Points(),
		Award:            aggregate.Award(),
		ValidNoAccess:    aggregate.ValidNoAccess(),
		CompletedDate:    aggregate.CompletedDate(),
	}

	if number := aggregate.Number(); number != nil {
		formatted := number.String()
		dto.JobNumber = &formatted
	}

	dto.Latitude, dto.Longitude = splitPoint(aggregate.Coordinates())
	dto.StartLatitude, dto.StartLongitude = splitPoint(aggregate.StartLocation())
	dto.EndLatitude, dto.EndLongitude = splitPoint(aggregate.EndLocation())

	if evidence := aggregate.Evidence(); evidence != nil {
		raw, err := json.Marshal(evidenceFromDomain(*evidence))
		if err != nil {
			return JobDTO{}, err
		}
		dto.Evidence = datatypes.JSON(raw)
	}

	return dto, nil
}

// toDomain converts a database DTO to a job domain aggregate.
// Malformed stored job numbers are treated as absent rather than failing
// the whole read.
func toDomain(dto JobDTO) (*job.Job, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	workerID, err := kernel.UUIDFromBytes(dto.AssignedWorkerID[:])
	if err != nil {
		return nil, err
	}

	var number *job.Number
	if dto.JobNumber != nil {
		if parsed, numberErr := job.NumberFromString(*dto.JobNumber); numberErr == nil {
			number = &parsed
		}
	}

	jobType, err := job.TypeFromString(dto.JobType)
	if err != nil {
		return nil, err
	}

	priority, err := job.PriorityFromString(dto.Priority)
	if err != nil {
		return nil, err
	}

	address, err := job.NewAddress(
		dto.Address.Street, dto.Address.City, dto.Address.State, dto.Address.ZipCode, dto.Address.Country)
	if err != nil {
		return nil, err
	}

	status, err := job.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	coordinates, err := joinPoint(dto.Latitude, dto.Longitude)
	if err != nil {
		return nil, err
	}

	startLocation, err := joinPoint(dto.StartLatitude, dto.StartLongitude)
	if err != nil {
		return nil, err
	}

	endLocation, err := joinPoint(dto.EndLatitude, dto.EndLongitude)
	if err != nil {
		return nil, err
	}

	var evidence *job.Evidence
	if len(dto.Evidence) > 0 {
		var stored evidenceDTO
		if err = json.Unmarshal(dto.Evidence, &stored); err != nil {
			return nil, err
		}
		restored, evidenceErr := evidenceToDomain(stored, startLocation, endLocation)
		if evidenceErr != nil {
			return nil, evidenceErr
		}
		evidence = restored
	}

	return job.RestoreJob(
		id,
		number,
		jobType,
		priority,
		address,
		coordinates,
		workerID,
		dto.ScheduledDate,
		dto.SequenceNumber,
		status,
		dto.Notes,
		evidence,
		startLocation,
		endLocation,
		dto.DistanceTraveled,
		job.Score{Points: dto.Points, Award: dto.Award, ValidNoAccess: dto.ValidNoAccess},
		dto.CompletedDate,
	)
}

func evidenceFromDomain(evidence job.Evidence) evidenceDTO {
	history := make([][2]float64, 0, len(evidence.LocationHistory))
	for _, point := range evidence.LocationHistory {
		history = append(history, [2]float64{point.Latitude(), point.Longitude()})
	}

	return evidenceDTO{
		RegisterValues:   evidence.RegisterValues,
		RegisterIDs:      evidence.RegisterIDs,
		ElectricReading:  evidence.ElectricReading,
		GasReading:       evidence.GasReading,
		WaterReading:     evidence.WaterReading,
		Photos:           evidence.Photos,
		NoAccessReason:   evidence.NoAccessReason,
		CustomerRead:     evidence.CustomerRead,
		LocationHistory:  history,
		DistanceTraveled: evidence.DistanceTraveled,
	}
}

func evidenceToDomain(
	dto evidenceDTO,
	startLocation *kernel.GeoPoint,
	endLocation *kernel.GeoPoint,
) (*job.Evidence, error) {
	history := make([]kernel.GeoPoint, 0, len(dto.LocationHistory))
	for _, pair := range dto.LocationHistory {
		point, err := kernel.NewGeoPoint(pair[0], pair[1])
		if err != nil {
			return nil, err
		}
		history = append(history, point)
	}

	return &job.Evidence{
		RegisterValues:   dto.RegisterValues,
		RegisterIDs:      dto.RegisterIDs,
		ElectricReading:  dto.ElectricReading,
		GasReading:       dto.GasReading,
		WaterReading:     dto.WaterReading,
		Photos:           dto.Photos,
		NoAccessReason:   dto.NoAccessReason,
		CustomerRead:     dto.CustomerRead,
		StartLocation:    startLocation,
		EndLocation:      endLocation,
		LocationHistory:  history,
		DistanceTraveled: dto.DistanceTraveled,
	}, nil
}

func splitPoint(point *kernel.GeoPoint) (*float64, *float64) {
	if point == nil {
		return nil, nil
	}

	lat := point.Latitude()
	lon := point.Longitude()
	return &lat, &lon
}

func joinPoint(lat *float64, lon *float64) (*kernel.GeoPoint, error) {
	if lat == nil || lon == nil {
		return nil, nil
	}

	point, err := kernel.NewGeoPoint(*lat, *lon)
	if err != nil {
		return nil, err
	}

	return &point, nil
}
