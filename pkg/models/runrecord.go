package models

import "time"

// RunRecord summarizes one completed validation run for the history store.
type RunRecord struct {
	// ID is the unique identifier assigned when the run starts.
	ID string `json:"id"`
	// StartedAt is when the run was submitted.
	StartedAt time.Time `json:"started_at"`
	// FinishedAt is when the run's completion was processed.
	FinishedAt time.Time `json:"finished_at"`
	// SpecimenFile is the specimen table path used for the run.
	SpecimenFile string `json:"specimen_file"`
	// MeasurementFile is the measurement table path used for the run.
	MeasurementFile string `json:"measurement_file"`
	// MultimediaFile is the multimedia table path used for the run.
	MultimediaFile string `json:"multimedia_file"`
	// MultimediaFolder is the multimedia base directory used for the run.
	MultimediaFolder string `json:"multimedia_folder"`
	// Warnings is the number of warning diagnostics collected.
	Warnings int `json:"warnings"`
	// Errors is the number of error diagnostics collected.
	Errors int `json:"errors"`
	// Success is true when the run produced no diagnostics.
	Success bool `json:"success"`
}
