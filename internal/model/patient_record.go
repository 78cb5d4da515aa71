package model

// PatientRecord is a clinical visit note stored in `patient_records`.
// PatientID must reference a live patient when the record is created;
// DoctorID is optional.
//
// Height is recorded in inches and weight in pounds, matching the
// clinic's intake forms.
type PatientRecord struct {
	ID        uint64  `json:"id"`
	Date      Date    `json:"date"`
	Notes     string  `json:"notes"`
	HeightIn  *int    `json:"height_in"`
	WeightLb  *int    `json:"weight_lb"`
	Diagnosis string  `json:"diagnosis"`
	PatientID uint64  `json:"patient_id"`
	DoctorID  *uint64 `json:"doctor_id"`
}
