package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"pricewatch/pkg/model"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run a single price check from the command line",
	Long: `Fetch the product page once, extract the price and compare it to the
target. When the price is at or below the target, a WhatsApp notification
is sent through the configured messaging account.`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().StringP("url", "u", "", "Product page URL")
	checkCmd.Flags().Float64P("target", "t", 0, "Target price that triggers the alert")
	checkCmd.Flags().Int("delay", 0, "Minutes to wait before delivering the alert")
	checkCmd.Flags().String("to", "", "Recipient number (default from config)")
	_ = checkCmd.MarkFlagRequired("url")
	_ = checkCmd.MarkFlagRequired("target")
}

func runCheck(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger := newLogger(cfg)

	svc, err := initService(cfg, logger)
	if err != nil {
		return err
	}

	pageURL, _ := cmd.Flags().GetString("url")
	target, _ := cmd.Flags().GetFloat64("target")
	delay, _ := cmd.Flags().GetInt("delay")
	sendTo, _ := cmd.Flags().GetString("to")

	req := model.MonitorRequest{
		URL:          pageURL,
		TargetPrice:  target,
		DelayMinutes: delay,
		SendTo:       sendTo,
	}

	result, err := svc.Check(cmd.Context(), req)
	if err != nil {
		return fmt.Errorf("check price: %w", err)
	}

	fmt.Printf("Price check:\n")
	fmt.Printf("  URL:       %s\n", pageURL)
	fmt.Printf("  Price:     %s (via %s)\n", result.Price.Value.StringFixed(2), result.Price.Source)
	fmt.Printf("  Target:    %s\n", req.Target().StringFixed(2))
	if !result.Triggered {
		fmt.Printf("  Triggered: no\n")
		return nil
	}
	fmt.Printf("  Triggered: yes\n")
	fmt.Printf("  Sent:      %s -> %s\n", result.Notification.MessageID, result.Notification.Recipient)

	return nil
}
