package model

// ReplyPattern maps a stored trigger string to a canned response.
// Responses may carry placeholder tokens like {data} or {query}; the resolver
// returns them verbatim and never substitutes.
type ReplyPattern struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Pattern  string `gorm:"size:255;not null;uniqueIndex" json:"pattern"`
	Response string `gorm:"type:text;not null" json:"response"`
}
