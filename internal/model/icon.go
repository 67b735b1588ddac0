package model

// SecurityIcon is a shared visual token rotated among claimed help
// requests. Available means unused since the last rotation reset.
type SecurityIcon struct {
	Value     string `bson:"_id"`
	Available bool   `bson:"available"`
	UpdatedAt int64  `bson:"updated_at"`
}
