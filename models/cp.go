package models

type ComputingProvider struct {
	CpAccountAddress string `json:"cp_account_address"`
	Name             string `json:"name"`
	NodeId           string `json:"node_id"`
	MultiAddress     string `json:"multi_address"`
	Region           string `json:"region"`
	Online           bool   `json:"online"`
	TaskTypes        []int  `json:"task_types"`
}

type Job struct {
	Uuid             string  `json:"uuid"`
	TaskUuid         string  `json:"task_uuid"`
	Status           string  `json:"status"`
	Hardware         string  `json:"hardware"`
	Duration         int     `json:"duration"`
	JobSourceURI     string  `json:"job_source_uri"`
	JobResultURI     string  `json:"job_result_uri"`
	JobRealURI       *string `json:"job_real_uri"`
	CpAccountAddress string  `json:"cp_account_address"`
	StartAt          int64   `json:"start_at"`
	EndAt            int64   `json:"end_at"`
	CreatedAt        int64   `json:"created_at"`
	UpdatedAt        int64   `json:"updated_at"`
}

// RealURI returns the deployed endpoint once the provider has published it.
func (j Job) RealURI() (string, bool) {
	if j.JobRealURI == nil || *j.JobRealURI == "" {
		return "", false
	}
	return *j.JobRealURI, true
}
