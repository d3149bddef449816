package yaml

import (
	"errors"
	"fmt"
	"time"

	"github.com/swanchain/go-swan-sdk/task"
)

type ManifestV1 struct {
	Version string `yaml:"version"`
	Task    TaskV1 `yaml:"task"`
}

type TaskV1 struct {
	InstanceType string   `yaml:"instance_type"`
	Region       string   `yaml:"region"`
	Duration     string   `yaml:"duration"`
	StartIn      string   `yaml:"start_in"`
	PreferredCp  []string `yaml:"preferred_cp"`
	AutoPay      bool     `yaml:"auto_pay"`
	Source       SourceV1 `yaml:"source"`
}

type SourceV1 struct {
	JobSourceURI string `yaml:"job_source_uri"`
	Image        string `yaml:"image"`
	RepoURI      string `yaml:"repo_uri"`
	RepoBranch   string `yaml:"repo_branch"`
}

// TaskManifest is the version independent form of a manifest.
type TaskManifest struct {
	InstanceType string
	Region       string
	Duration     string
	StartIn      string
	PreferredCp  []string
	AutoPay      bool
	JobSourceURI string
	Image        string
	RepoURI      string
	RepoBranch   string
}

func (m ManifestV1) toManifest() *TaskManifest {
	return &TaskManifest{
		InstanceType: m.Task.InstanceType,
		Region:       m.Task.Region,
		Duration:     m.Task.Duration,
		StartIn:      m.Task.StartIn,
		PreferredCp:  m.Task.PreferredCp,
		AutoPay:      m.Task.AutoPay,
		JobSourceURI: m.Task.Source.JobSourceURI,
		Image:        m.Task.Source.Image,
		RepoURI:      m.Task.Source.RepoURI,
		RepoBranch:   m.Task.Source.RepoBranch,
	}
}

func (m *TaskManifest) check() error {
	if m.JobSourceURI == "" && m.Image == "" && m.RepoURI == "" {
		return errors.New("manifest must name a job_source_uri, an image or a repo_uri")
	}
	if m.Duration == "" {
		return errors.New("manifest duration is required")
	}
	return nil
}

// CreateOptions fills the creation options for wallet; durations use Go syntax such as "2h".
func (m *TaskManifest) CreateOptions(wallet, privateKey string) (task.CreateTaskOptions, error) {
	duration, err := time.ParseDuration(m.Duration)
	if err != nil {
		return task.CreateTaskOptions{}, fmt.Errorf("invalid duration %q: %w", m.Duration, err)
	}
	var startIn time.Duration
	if m.StartIn != "" {
		if startIn, err = time.ParseDuration(m.StartIn); err != nil {
			return task.CreateTaskOptions{}, fmt.Errorf("invalid start_in %q: %w", m.StartIn, err)
		}
	}
	opts := task.CreateTaskOptions{
		WalletAddress:   wallet,
		InstanceType:    m.InstanceType,
		Region:          m.Region,
		Duration:        duration,
		StartIn:         startIn,
		JobSourceURI:    m.JobSourceURI,
		AppRepoImage:    m.Image,
		RepoURI:         m.RepoURI,
		RepoBranch:      m.RepoBranch,
		AutoPay:         m.AutoPay,
		PreferredCpList: m.PreferredCp,
	}
	if m.AutoPay {
		opts.PrivateKey = privateKey
	}
	return opts, nil
}
