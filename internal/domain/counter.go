package domain

// Counter is a named monotonically increasing sequence.
type Counter struct {
	Name  string `gorm:"column:name;primaryKey;size:64"`
	Value int64  `gorm:"column:value;not null"`
}

func (Counter) TableName() string {
	return "counters"
}
