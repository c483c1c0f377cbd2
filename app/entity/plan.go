package entity

import "time"

const ObjectPlan = "plan"

const (
	IntervalDay   = "day"
	IntervalWeek  = "week"
	IntervalMonth = "month"
	IntervalYear  = "year"
)

type Plan struct {
	ID                  string            `json:"id"`
	Object              string            `json:"object"`
	Amount              int64             `json:"amount"`
	Created             int64             `json:"created"`
	Currency            string            `json:"currency"`
	Interval            string            `json:"interval"`
	IntervalCount       int64             `json:"interval_count"`
	Livemode            bool              `json:"livemode"`
	Metadata            map[string]string `json:"metadata"`
	Name                string            `json:"name"`
	StatementDescriptor *string           `json:"statement_descriptor"`
	TrialPeriodDays     *int64            `json:"trial_period_days"`
}

type DeletedPlan struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Deleted bool   `json:"deleted"`
}

type PlanList struct {
	Object  string  `json:"object"`
	Data    []*Plan `json:"data"`
	HasMore bool    `json:"has_more"`
	URL     string  `json:"url"`
}

// MirroredPlan is a plan as stored in the local mirror.
type MirroredPlan struct {
	Plan
	SyncedAt time.Time
}
