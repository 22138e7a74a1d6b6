package model

import "time"

// TimeInterval is a recurring weekly availability window. Offsets are
// minutes since midnight; the end must be after the start and both must
// fall on whole hours so no bookable time is silently truncated.
type TimeInterval struct {
	ID                 string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	UserID             string    `json:"user_id" bson:"user_id" validate:"required,mongodb"`
	WeekDay            int       `json:"week_day" bson:"week_day" validate:"min=0,max=6"`
	TimeStartInMinutes int       `json:"time_start_in_minutes" bson:"time_start_in_minutes" validate:"min=0,max=1440,hour_aligned"`
	TimeEndInMinutes   int       `json:"time_end_in_minutes" bson:"time_end_in_minutes" validate:"min=0,max=1440,hour_aligned,gtfield=TimeStartInMinutes"`
	CreatedAt          time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// IntervalInput is one entry of the bulk weekly-availability submission.
// Disabled entries are accepted and dropped before persistence.
type IntervalInput struct {
	WeekDay            int  `json:"week_day" validate:"min=0,max=6"`
	TimeStartInMinutes int  `json:"time_start_in_minutes" validate:"min=0,max=1440"`
	TimeEndInMinutes   int  `json:"time_end_in_minutes" validate:"min=0,max=1440"`
	Enabled            bool `json:"enabled"`
}

type IntervalSubmission struct {
	Intervals []IntervalInput `json:"intervals" validate:"required,min=1,max=7,dive"`
}
