package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/rs/zerolog"

	"wu/alarm"
	"wu/config"
	"wu/logger"
	"wu/prefs"
	"wu/reminder"
	"wu/state"
	"wu/storage"
)

var messages = []string{
	"记得喝水",
	"给妈妈打电话",
	"交水电费",
	"读完那本书了吗",
	"去看看海",
	"一年前的今天你在想什么",
	"Team standup meeting",
	"Review pull request",
	"Submit expense report",
	"Call with client",
	"Sprint planning",
	"Renew passport",
	"Water the plants",
	"Backup the laptop",
	"Book dentist appointment",
	"Take a walk",
	"Write to an old friend",
	"Stretch",
	"Check the oven",
	"Pick up the parcel",
}

func main() {
	count := flag.Int("n", 200, "number of reminders to generate")
	flag.Parse()

	cfg, err := config.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading config: %v\n", err)
		os.Exit(1)
	}
	log := logger.Console("seed", logger.ParseLevel(cfg.LogLevel))

	db, err := storage.Open(cfg.DBPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	store := state.NewStore(prefs.NewArea(db, state.NotificationsArea), log)
	queue := alarm.NewQueue(db, true)

	n, err := seed(context.Background(), store, queue, *count, time.Now(), rand.New(rand.NewSource(time.Now().UnixNano())), log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error seeding: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Generated %d test reminders in %s\n", n, cfg.DBPath())
}

// seed writes count random reminders between 30 days ago and a year ahead.
// Only future reminders get an alarm; past ones show up as expired.
func seed(ctx context.Context, store *state.Store, queue alarm.Scheduler, count int, now time.Time, rng *rand.Rand, log zerolog.Logger) (int, error) {
	// Range from 30 days ago to 1 year from now
	pastDays := 30
	futureDays := 365
	totalDays := pastDays + futureDays

	ids := reminder.NewIDGenerator(func() time.Time { return now })
	taken := make(map[int64]bool)
	for _, r := range store.List(ctx) {
		taken[r.ID] = true
	}
	nextID := func() int64 {
		id := ids.Next()
		for taken[id] {
			id = ids.Next()
		}
		return id
	}

	written := 0
	for i := 0; i < count; i++ {
		// Random day offset from -30 days to +365 days
		dayOffset := rng.Intn(totalDays+1) - pastDays
		// Random hour (8am to 10pm)
		hour := 8 + rng.Intn(15)
		// Random minute (on the hour, :15, :30, or :45)
		minute := rng.Intn(4) * 15

		r := reminder.Reminder{
			ID: nextID(),
			TriggerAt: time.Date(
				now.Year(), now.Month(), now.Day()+dayOffset,
				hour, minute, 0, 0, now.Location(),
			),
			Message: fmt.Sprintf("%s (%d)", messages[rng.Intn(len(messages))], i+1),
		}

		if r.TriggerAt.After(now) {
			err := queue.Schedule(ctx, r.ID, r.TriggerAt, alarm.Payload{Message: r.Message, TriggerAt: r.TriggerAt})
			if errors.Is(err, alarm.ErrIDInUse) {
				i--
				continue
			}
			if err != nil {
				return written, err
			}
		}
		if err := store.Add(ctx, r); err != nil {
			return written, err
		}
		written++
	}
	log.Debug().Int("count", written).Msg("seeded reminders")
	return written, nil
}
