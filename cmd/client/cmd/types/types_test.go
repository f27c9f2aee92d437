package types

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"pettrack/cmd/client/cmd/output"
	"pettrack/internal/app/client/view"
)

func TestLoad(t *testing.T) {
	var stderr bytes.Buffer
	prev := output.Stderr
	output.Stderr = &stderr
	t.Cleanup(func() { output.Stderr = prev })

	tests := []struct {
		name     string
		failures int
		retries  int
		wantErr  bool
		calls    int
	}{
		{name: "first attempt", failures: 0, retries: 0, calls: 1},
		{name: "recovered by retry", failures: 2, retries: 2, calls: 3},
		{name: "retries exhausted", failures: 3, retries: 1, wantErr: true, calls: 2},
		{name: "no retries", failures: 1, retries: 0, wantErr: true, calls: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stderr.Reset()
			calls := 0
			l := view.New(context.Background(), func(ctx context.Context) (string, error) {
				calls++
				if calls <= tt.failures {
					return "", errors.New("remote unavailable")
				}
				return "ok", nil
			}, slog.Default())
			defer l.Close()

			got, err := Load(context.Background(), l, tt.retries)
			assert.Equal(t, tt.calls, calls)
			assert.Equal(t, tt.calls-1, strings.Count(stderr.String(), "Повтор"))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "ok", got)
		})
	}
}

func TestAppAndOpts_FromContext(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())

	_, err := App(cmd)
	assert.Error(t, err)
	assert.Equal(t, Options{}, Opts(cmd))

	cmd.SetContext(context.WithValue(cmd.Context(), OptionsKey, Options{JSON: true, Retry: 2}))
	assert.Equal(t, Options{JSON: true, Retry: 2}, Opts(cmd))
}
