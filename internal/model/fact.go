package model

// Fact is a category/key/value triple searchable by keyword.
// "key" is a reserved word in MySQL, hence the fact_key column name.
type Fact struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Category string `gorm:"size:64;not null" json:"category"`
	Key      string `gorm:"column:fact_key;size:64;not null" json:"key"`
	Value    string `gorm:"size:255;not null" json:"value"`
}
