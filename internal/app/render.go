package app

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/coreos/go-systemd/v22/daemon"

	"slurmwatch/internal/services/watcher"
)

// consume is the stand-in for the interactive UI: it renders each published
// snapshot as a plain table on w. It also pings the systemd watchdog per
// snapshot, since a fresh snapshot is the best liveness signal we have.
func consume(ctx context.Context, snapshots <-chan watcher.Snapshot, w io.Writer) error {
	watchdog, _ := daemon.SdWatchdogEnabled(false)

	for {
		select {
		case <-ctx.Done():
			return nil
		case snap, ok := <-snapshots:
			if !ok {
				return nil
			}
			render(w, snap)
			if watchdog > 0 {
				_, _ = daemon.SdNotify(false, daemon.SdNotifyWatchdog)
			}
		}
	}
}

func render(w io.Writer, snap watcher.Snapshot) {
	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\tjobs=%d\n", snap.At.Format("15:04:05"), len(snap.Jobs))
	fmt.Fprintln(tw, "JOBID\tST\tNAME\tUSER\tTIME\tPARTITION\tNODELIST\tREASON")
	for _, j := range snap.Jobs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			j.JobID, j.StateCompact, j.Name, j.User, j.Time, j.Partition, j.NodeList, deref(j.Reason))
	}
	_ = tw.Flush()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
