package inscriber

import (
	"fmt"
	"strconv"
	"strings"
)

type jobEventKind int

const (
	jobEventProgress jobEventKind = iota
	jobEventComplete
	jobEventError
)

// jobEvent is one push notification about an inscription job.
type jobEvent struct {
	kind    jobEventKind
	fields  map[string]any
	message string
}

func (e jobEvent) job() InscriptionJob {
	status := stringField(e.fields, "status")
	return InscriptionJob{
		ID:            stringField(e.fields, "id"),
		Status:        status,
		Completed:     strings.EqualFold(status, "completed"),
		TxID:          stringField(e.fields, "tx_id"),
		TransactionID: stringField(e.fields, "transactionId"),
		TopicID:       stringField(e.fields, "topicId", "topic_id"),
		Error:         stringField(e.fields, "error"),
	}
}

// refersTo reports whether the event belongs to the job paid by transactionID.
// Events that carry no identifier are never matched unless no ID is tracked.
func (e jobEvent) refersTo(transactionID string) bool {
	if transactionID == "" {
		return true
	}
	for _, key := range []string{"jobId", "tx_id", "transactionId"} {
		if candidate := normalizeTransactionID(stringField(e.fields, key)); candidate != "" && candidate == transactionID {
			return true
		}
	}
	return false
}

// jobTracker folds the event stream of one job into its final state.
type jobTracker struct {
	transactionID string
	progress      ProgressCallback
}

func newJobTracker(transactionID string, progress ProgressCallback) *jobTracker {
	return &jobTracker{transactionID: normalizeTransactionID(transactionID), progress: progress}
}

// observe returns done once the job completed or failed. Events for other jobs are
// ignored.
func (t *jobTracker) observe(event jobEvent) (job InscriptionJob, done bool, err error) {
	switch event.kind {
	case jobEventError:
		message := strings.TrimSpace(event.message)
		if message == "" {
			message = "websocket inscription error"
		}
		return InscriptionJob{}, true, fmt.Errorf("%s", message)
	case jobEventComplete:
		if !event.refersTo(t.transactionID) {
			return InscriptionJob{}, false, nil
		}
		return completedJob(event), true, nil
	default:
		if !event.refersTo(t.transactionID) {
			return InscriptionJob{}, false, nil
		}
		percent := numberField(event.fields, "progress")
		if t.progress != nil {
			t.progress(ProgressData{
				Stage:           ProgressStageConfirming,
				Message:         "Processing inscription",
				ProgressPercent: percent,
				Details:         event.fields,
			})
		}
		if strings.EqualFold(stringField(event.fields, "status"), "completed") || percent >= 100 {
			return completedJob(event), true, nil
		}
		return InscriptionJob{}, false, nil
	}
}

func completedJob(event jobEvent) InscriptionJob {
	job := event.job()
	job.Completed = true
	if strings.TrimSpace(job.Status) == "" {
		job.Status = "completed"
	}
	return job
}

// stringField returns the first non-blank value among keys, formatted as text.
func stringField(fields map[string]any, keys ...string) string {
	for _, key := range keys {
		var text string
		switch typed := fields[key].(type) {
		case string:
			text = typed
		case fmt.Stringer:
			text = typed.String()
		case float64:
			text = strconv.FormatFloat(typed, 'f', -1, 64)
		case int64:
			text = strconv.FormatInt(typed, 10)
		case int:
			text = strconv.Itoa(typed)
		}
		if text = strings.TrimSpace(text); text != "" {
			return text
		}
	}
	return ""
}

func numberField(fields map[string]any, key string) float64 {
	switch typed := fields[key].(type) {
	case float64:
		return typed
	case float32:
		return float64(typed)
	case int:
		return float64(typed)
	case int64:
		return float64(typed)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(typed), 64)
		if err != nil {
			return 0
		}
		return parsed
	default:
		return 0
	}
}
