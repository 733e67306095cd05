package cli

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

// statsCmd summarizes the requests made in this session from the client's
// Prometheus collectors.
func (a *App) statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show request counts and latency for this session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := a.requestStats()
			if err != nil {
				return err
			}
			if len(rows) == 0 {
				a.println(faint("No requests yet."))
				return nil
			}
			for _, r := range rows {
				a.printf("%-16s %5d  avg %-8s %s\n", r.op, r.count, r.avg().Round(time.Millisecond), faint(r.codesText()))
			}
			return nil
		},
	}
}

type opStats struct {
	op    string
	count uint64
	sum   float64
	codes map[string]float64
}

func (s opStats) avg() time.Duration {
	if s.count == 0 {
		return 0
	}
	return time.Duration(s.sum / float64(s.count) * float64(time.Second))
}

func (s opStats) codesText() string {
	keys := make([]string, 0, len(s.codes))
	for k := range s.codes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s:%d", k, int(s.codes[k])))
	}
	return strings.Join(parts, " ")
}

func (a *App) requestStats() ([]opStats, error) {
	if a.registry == nil {
		return nil, nil
	}
	families, err := a.registry.Gather()
	if err != nil {
		return nil, err
	}

	byOp := map[string]*opStats{}
	get := func(op string) *opStats {
		if s, ok := byOp[op]; ok {
			return s
		}
		s := &opStats{op: op, codes: map[string]float64{}}
		byOp[op] = s
		return s
	}

	for _, mf := range families {
		switch mf.GetName() {
		case "studyhub_client_requests_total":
			for _, m := range mf.GetMetric() {
				var op, code string
				for _, l := range m.GetLabel() {
					switch l.GetName() {
					case "op":
						op = l.GetValue()
					case "code":
						code = l.GetValue()
					}
				}
				get(op).codes[code] += m.GetCounter().GetValue()
			}
		case "studyhub_client_request_duration_seconds":
			for _, m := range mf.GetMetric() {
				for _, l := range m.GetLabel() {
					if l.GetName() == "op" {
						s := get(l.GetValue())
						s.count = m.GetHistogram().GetSampleCount()
						s.sum = m.GetHistogram().GetSampleSum()
					}
				}
			}
		}
	}

	out := make([]opStats, 0, len(byOp))
	for _, s := range byOp {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].op < out[j].op })
	return out, nil
}
