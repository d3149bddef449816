package mockserver

import (
	"fmt"
	"time"

	"github.com/swanchain/go-swan-sdk/constants"
	"github.com/swanchain/go-swan-sdk/models"
)

// AssignJob attaches a provider job to a task, as bidding would.
func (s *Server) AssignJob(taskUUID string, cp models.ComputingProvider) (string, error) {
	s.lk.Lock()
	defer s.lk.Unlock()
	rec, ok := s.tasks[taskUUID]
	if !ok {
		return "", fmt.Errorf("task %s not found", taskUUID)
	}
	now := time.Now().Unix()
	job := models.Job{
		Uuid:             s.newUUID(),
		TaskUuid:         taskUUID,
		Status:           constants.JobSubmitted,
		Hardware:         rec.task.TaskDetail.Hardware,
		Duration:         rec.task.TaskDetail.Duration,
		JobSourceURI:     rec.task.TaskDetail.JobSourceURI,
		CpAccountAddress: cp.CpAccountAddress,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	rec.jobs = append(rec.jobs, job)
	rec.cps = append(rec.cps, cp)
	if rec.task.Status == constants.TaskPaid || rec.task.Status == constants.TaskInitialized {
		rec.task.Status = constants.TaskBidding
	}
	return job.Uuid, nil
}

// PublishURL marks a job running at uri.
func (s *Server) PublishURL(taskUUID, jobUUID, uri string) error {
	s.lk.Lock()
	defer s.lk.Unlock()
	rec, ok := s.tasks[taskUUID]
	if !ok {
		return fmt.Errorf("task %s not found", taskUUID)
	}
	for i := range rec.jobs {
		if rec.jobs[i].Uuid == jobUUID {
			u := uri
			rec.jobs[i].JobRealURI = &u
			rec.jobs[i].Status = constants.JobRunning
			rec.jobs[i].StartAt = time.Now().Unix()
			rec.task.Status = constants.TaskRunning
			return nil
		}
	}
	return fmt.Errorf("job %s not found in task %s", jobUUID, taskUUID)
}

func (s *Server) Task(taskUUID string) (models.Task, bool) {
	s.lk.RLock()
	defer s.lk.RUnlock()
	rec, ok := s.tasks[taskUUID]
	if !ok {
		return models.Task{}, false
	}
	return rec.task, true
}

func (s *Server) ConfigOrders(taskUUID string) []models.ConfigOrder {
	s.lk.RLock()
	defer s.lk.RUnlock()
	rec, ok := s.tasks[taskUUID]
	if !ok {
		return nil
	}
	out := make([]models.ConfigOrder, len(rec.orders))
	copy(out, rec.orders)
	return out
}
