package analytics

import (
	"bufio"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Publisher forwards recorded events to an external sink (e.g. Kafka).
// Optional; the recorder works standalone.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Recorder appends events to a JSONL log file and reads them back. Lines that
// fail to parse are skipped on read, matching how the log has always been
// consumed.
type Recorder struct {
	path      string
	logger    *slog.Logger
	publisher Publisher

	mu sync.Mutex
}

func NewRecorder(path string, logger *slog.Logger, publisher Publisher) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{path: path, logger: logger, publisher: publisher}
}

func (r *Recorder) Record(ctx context.Context, e Event) error {
	if e.TS == 0 {
		e.TS = time.Now().UnixMilli()
	}

	line, err := json.Marshal(e)
	if err != nil {
		return err
	}

	r.mu.Lock()
	err = r.appendLine(line)
	r.mu.Unlock()
	if err != nil {
		return err
	}

	if r.publisher != nil {
		if perr := r.publisher.Publish(ctx, e); perr != nil {
			// The log file is the source of truth; a broker hiccup is not the
			// caller's problem.
			r.logger.Warn("analytics publish failed", "event", e.Event, "err", perr)
		}
	}
	return nil
}

func (r *Recorder) appendLine(line []byte) error {
	if dir := filepath.Dir(r.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	f, err := os.OpenFile(r.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return err
	}
	return nil
}

// List returns all recorded events in order. A missing log file is an empty
// list, not an error.
func (r *Recorder) List(ctx context.Context) ([]Event, error) {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	f, err := os.Open(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []Event{}, nil
		}
		return nil, err
	}
	defer f.Close()

	events := []Event{}
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		var e Event
		if err := json.Unmarshal(line, &e); err != nil {
			r.logger.Warn("skipping malformed analytics line", "err", err)
			continue
		}
		events = append(events, e)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return events, nil
}
