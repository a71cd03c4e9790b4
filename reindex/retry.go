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
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/poiesic/stemdex/storage"
)

// maxRetryDelay caps the wait between two attempts.
const maxRetryDelay = 30 * time.Second

// RetryWithBackoff runs write until it succeeds, fails with an error other
// than storage.ErrConflict, or has been tried maxAttempts times. The wait
// before attempt n+1 is baseDelay * 2^(n-1), capped at maxRetryDelay.
func RetryWithBackoff(ctx context.Context, write func() error, maxAttempts int, baseDelay time.Duration) error {
	if maxAttempts <= 0 {
		return ErrInvalidMaxAttempts
	}

	delay := baseDelay
	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := write()
		switch {
		case err == nil:
			if attempt > 1 {
				slog.Debug("write committed after conflict", "attempt", attempt)
			}
			return nil
		case !errors.Is(err, storage.ErrConflict):
			return err
		case attempt == maxAttempts:
			slog.Warn("write still conflicting, giving up", "attempts", attempt, "err", err)
			return err
		}

		slog.Debug("write conflicted, backing off", "attempt", attempt, "delay", delay)
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		delay = min(delay*2, maxRetryDelay)
	}
}
