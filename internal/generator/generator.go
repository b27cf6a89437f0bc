package generator

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/adanyl0v/go-sales-tracker/internal/models"
	"github.com/adanyl0v/go-sales-tracker/internal/normalizer"
)

const DefaultCount = 50

var (
	activities = []string{
		"Follow up with",
		"Prepare proposal for",
		"Demo product to",
		"Negotiate renewal with",
		"Cold call",
		"Send quote to",
		"Onboarding call with",
		"Quarterly review with",
	}
	accounts = []string{
		"Acme Corp",
		"Globex",
		"Initech",
		"Umbrella Ltd",
		"Stark Industries",
		"Wayne Enterprises",
		"Hooli",
		"Soylent",
	}
	priorities = []models.Priority{models.PriorityLow, models.PriorityMedium, models.PriorityHigh}
	statuses   = []models.Status{models.StatusTodo, models.StatusInProgress, models.StatusDone}
)

type options struct {
	seed uint64
	now  func() time.Time
}

type Option func(*options)

func WithSeed(seed uint64) Option {
	return func(o *options) {
		o.seed = seed
	}
}

func WithNow(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// Generate produces n plausible demo task records. The same seed yields
// the same records.
func Generate(n int, opts ...Option) []normalizer.Record {
	o := options{
		seed: uint64(time.Now().UnixNano()),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if n <= 0 {
		return nil
	}

	rng := rand.New(rand.NewPCG(o.seed, o.seed^0x9e3779b97f4a7c15))
	now := o.now()

	records := make([]normalizer.Record, 0, n)
	for i := range n {
		status := statuses[rng.IntN(len(statuses))]
		createdAt := now.Add(-time.Duration(rng.IntN(30*24)+1) * time.Hour)

		record := normalizer.Record{
			"id":        fmt.Sprintf("seed-%03d", i+1),
			"title":     fmt.Sprintf("%s %s", activities[rng.IntN(len(activities))], accounts[rng.IntN(len(accounts))]),
			"revenue":   float64(rng.IntN(200)) * 50,
			"timeTaken": float64(rng.IntN(16) + 1),
			"priority":  string(priorities[rng.IntN(len(priorities))]),
			"status":    string(status),
			"notes":     "",
			"createdAt": createdAt.Format(time.RFC3339),
		}
		if status == models.StatusDone {
			completedAt := createdAt.Add(time.Duration(rng.IntN(72)+1) * time.Hour)
			if completedAt.After(now) {
				completedAt = now
			}
			record["completedAt"] = completedAt.Format(time.RFC3339)
		}
		records = append(records, record)
	}
	return records
}
