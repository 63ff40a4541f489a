package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/three-daily-goals/internal/datamanager"
	"github.com/runoshun/three-daily-goals/internal/domain"
	"github.com/runoshun/three-daily-goals/internal/testutil"
)

func TestKillOldTasks_Execute(t *testing.T) {
	tests := []struct {
		name        string
		expiryPref  string
		expireAfter int
		wantDays    int
		wantMoved   int
	}{
		{name: "default expiry", wantDays: 30, wantMoved: 1},
		{name: "preference", expiryPref: "5", wantDays: 5, wantMoved: 2},
		{name: "explicit override", expiryPref: "5", expireAfter: 60, wantDays: 60, wantMoved: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := testutil.NewMockTaskRepository()
			repo.Add(
				taskAt(1, domain.StateOpen, 45),
				taskAt(2, domain.StateOpen, 10),
				taskAt(3, domain.StateOpen, 1),
				taskAt(4, domain.StatePriority, 45),
				taskAt(5, domain.StatePendingResponse, 45),
			)
			kv := testutil.NewMemoryKV()
			if tt.expiryPref != "" {
				kv.Values[domain.KeyExpiryAfter] = tt.expiryPref
			}
			clock := testutil.NewFixedTime(testNow)
			uc := NewKillOldTasks(datamanager.New(repo, clock, nil), domain.NewPreferences(kv, time.UTC), clock)

			out, err := uc.Execute(context.Background(), KillOldTasksInput{ExpireAfter: tt.expireAfter})

			require.NoError(t, err)
			assert.Equal(t, tt.wantDays, out.ExpireAfter)
			assert.Equal(t, tt.wantMoved, out.Moved)
			assert.Equal(t, domain.StatePriority, repo.Tasks[4].State)
			assert.Equal(t, domain.StatePendingResponse, repo.Tasks[5].State)
			assert.Equal(t, domain.StateOpen, repo.Tasks[3].State)
		})
	}
}
