package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/VarunSharma3520/Reply/internal/clipboard"
	"github.com/VarunSharma3520/Reply/internal/reply"
)

var askCmd = &cobra.Command{
	Use:   "ask [message]",
	Short: "Stream a reply to a message without the panel",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		st, err := styleFlag(cmd, a.cfg.DefaultStyle())
		if err != nil {
			return err
		}
		input := strings.TrimSpace(strings.Join(args, " "))
		if input == "" {
			return fmt.Errorf("message is empty")
		}

		session, _ := a.newSession(cmd.Context())
		defer session.Close()

		if err := session.Ready(); err != nil {
			return fmt.Errorf("%s: %w", session.Snapshot().Err, err)
		}

		updates, unsubscribe := session.Subscribe()
		defer unsubscribe()

		session.Generate(input, st)
		final := streamTo(cmd.Context(), os.Stdout, updates)
		fmt.Fprintln(os.Stdout)

		switch final.Status {
		case reply.Completed:
		case reply.Failed:
			return fmt.Errorf("%s", final.Err)
		default:
			return fmt.Errorf("generation interrupted")
		}

		if _, err := a.history.Save(cmd.Context(), input, st.Label(), final.Text); err != nil {
			a.log.Error("failed to save reply", err, nil)
			fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		}

		if copyFlag, _ := cmd.Flags().GetBool("copy"); copyFlag {
			if err := clipboard.Copy(clipboard.System{}, final.Text); err != nil {
				return err
			}
			fmt.Fprintln(os.Stderr, promptStyle.Render("Copied to clipboard"))
		}
		return nil
	},
}

func init() {
	askCmd.Flags().StringP("style", "s", "", "reply style: professional or casual")
	askCmd.Flags().BoolP("copy", "c", false, "copy the reply to the clipboard")
}

// streamTo writes reply text to w as it grows and returns the state that
// ended the generation. Snapshots are cumulative, so only the unseen suffix
// is written; if the text is rewritten the whole snapshot is printed on a new line.
func streamTo(ctx context.Context, w io.Writer, updates <-chan reply.State) reply.State {
	var printed string
	var last reply.State

	for {
		select {
		case <-ctx.Done():
			return last
		case st, ok := <-updates:
			if !ok {
				return last
			}
			last = st
			if st.Status == reply.Idle {
				continue
			}

			if st.Text != "" && st.Text != printed {
				if strings.HasPrefix(st.Text, printed) {
					fmt.Fprint(w, st.Text[len(printed):])
				} else {
					fmt.Fprint(w, "\n"+st.Text)
				}
				printed = st.Text
			}

			if st.Status == reply.Completed || st.Status == reply.Failed {
				return st
			}
		}
	}
}
