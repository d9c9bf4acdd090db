package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/VarunSharma3520/Reply/internal/reply"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check whether the configured model can be used",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		session, avail := a.newSession(cmd.Context())
		defer session.Close()

		fmt.Printf("%s %s (%s)\n", labelStyle.Render("Model:"), a.cfg.ModelName, a.cfg.APIURL)
		if avail.OK() {
			fmt.Println(okStyle.Render("✅ available"))
			return nil
		}
		fmt.Println(errStyle.Render("❌ " + reply.AvailabilityMessage(avail)))
		return fmt.Errorf("model unavailable: %s", avail.Kind)
	},
}
