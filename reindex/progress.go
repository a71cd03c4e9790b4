// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package reindex

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// ProgressTracker prints a single self-overwriting progress line for a
// reindexing run. Safe for concurrent use.
type ProgressTracker struct {
	mu sync.Mutex

	out      io.Writer
	total    int
	every    int
	started  time.Time
	running  bool
	done     int
	changed  int
	lastDone int
}

// NewProgressTracker creates a tracker for total documents that prints a
// line whenever at least every more documents have been processed.
func NewProgressTracker(out io.Writer, total, every int) *ProgressTracker {
	return &ProgressTracker{out: out, total: total, every: max(every, 1)}
}

// Start begins timing and resets the counters.
func (p *ProgressTracker) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.started = time.Now()
	p.running = true
	p.done, p.changed, p.lastDone = 0, 0, 0
}

// Update records how many documents have been processed and how many of
// them were rewritten so far.
func (p *ProgressTracker) Update(processed, rewritten int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return
	}
	p.done = min(processed, p.total)
	p.changed = min(rewritten, p.done)
	if p.done-p.lastDone >= p.every {
		p.print()
		p.lastDone = p.done
	}
}

// Finish prints the final line and ends it.
func (p *ProgressTracker) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return
	}
	p.done = p.total
	p.print()
	fmt.Fprintln(p.out)
}

// Elapsed returns the time since Start, or zero if the tracker never started.
func (p *ProgressTracker) Elapsed() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return 0
	}
	return time.Since(p.started)
}

func (p *ProgressTracker) print() {
	pct := 100.0
	if p.total > 0 {
		pct = float64(p.done) / float64(p.total) * 100
	}
	rate := float64(p.done) / time.Since(p.started).Seconds()
	fmt.Fprintf(p.out, "\rReindexed %d/%d (%.1f%%), %d rewritten, %.1f documents/s",
		p.done, p.total, pct, p.changed, rate)
}
