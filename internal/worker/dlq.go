package worker

// dlq.go: jobs that keep failing are parked in dlq:{queue} for manual
// inspection with `aplicasctl dlq`.

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const DLQPrefix = "dlq:"

// dlqMax bounds every dead letter list; older entries are trimmed.
const dlqMax = 1000

// DLQEntry is one parked job plus the reason it was given up.
type DLQEntry struct {
	Queue    string          `json:"queue"`
	JobType  string          `json:"job_type"`
	Payload  json.RawMessage `json:"payload"`
	Reason   string          `json:"reason"`
	Attempts int             `json:"attempts"`
	Fecha    time.Time       `json:"fecha"`
}

func dlqKey(queue string) string { return DLQPrefix + queue }

// SendToDLQ parks a job. Errors are logged only: the job is already lost to
// the pool and the caller has nothing left to retry.
func SendToDLQ(ctx context.Context, rdb redis.Cmdable, queue, jobType string, payload json.RawMessage, reason string, attempts int) {
	data, err := json.Marshal(DLQEntry{
		Queue:    queue,
		JobType:  jobType,
		Payload:  payload,
		Reason:   reason,
		Attempts: attempts,
		Fecha:    time.Now().UTC(),
	})
	if err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("dlq: marshal")
		return
	}

	key := dlqKey(queue)
	pipe := rdb.TxPipeline()
	pipe.LPush(ctx, key, data)
	pipe.LTrim(ctx, key, 0, dlqMax-1)
	if _, err := pipe.Exec(ctx); err != nil {
		log.Error().Err(err).Str("dlq_key", key).Msg("dlq: push")
		return
	}

	log.Warn().
		Str("queue", queue).
		Str("job_type", jobType).
		Str("reason", reason).
		Int("attempts", attempts).
		Msg("dlq: job parked")
}

// DLQLength returns how many jobs of queue are parked.
func DLQLength(ctx context.Context, rdb redis.Cmdable, queue string) (int64, error) {
	return rdb.LLen(ctx, dlqKey(queue)).Result()
}

// ListarDLQ returns the n most recent parked jobs of queue, newest first.
// Entries that no longer decode are skipped.
func ListarDLQ(ctx context.Context, rdb redis.Cmdable, queue string, n int64) ([]DLQEntry, error) {
	if n <= 0 {
		return nil, nil
	}
	raws, err := rdb.LRange(ctx, dlqKey(queue), 0, n-1).Result()
	if err != nil {
		return nil, err
	}
	out := make([]DLQEntry, 0, len(raws))
	for _, raw := range raws {
		var e DLQEntry
		if err := json.Unmarshal([]byte(raw), &e); err != nil {
			log.Warn().Err(err).Str("queue", queue).Msg("dlq: undecodable entry")
			continue
		}
		out = append(out, e)
	}
	return out, nil
}
