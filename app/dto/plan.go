package dto

type PlanResponse struct {
	ID                  string            `json:"id"`
	Object              string            `json:"object"`
	Amount              int64             `json:"amount"`
	AmountDisplay       string            `json:"amount_display"`
	Currency            string            `json:"currency"`
	Interval            string            `json:"interval"`
	IntervalCount       int64             `json:"interval_count"`
	Livemode            bool              `json:"livemode"`
	Metadata            map[string]string `json:"metadata"`
	Name                string            `json:"name"`
	StatementDescriptor *string           `json:"statement_descriptor"`
	TrialPeriodDays     *int64            `json:"trial_period_days"`
	CreatedAt           string            `json:"created_at"`
}

type MirroredPlanResponse struct {
	PlanResponse
	SyncedAt string `json:"synced_at"`
}

type PlanEnvelopeResponse struct {
	Plan PlanResponse `json:"plan"`
}

type MirroredPlanEnvelopeResponse struct {
	Plan MirroredPlanResponse `json:"plan"`
}

type ListPlansResponse struct {
	Plans   []PlanResponse `json:"plans"`
	HasMore bool           `json:"has_more"`
}

type ListMirroredPlansResponse struct {
	Plans []MirroredPlanResponse `json:"plans"`
}

type DeletePlanResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}
