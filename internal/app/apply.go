package app

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/charmbracelet/log"
)

// promptAndApply asks the operator for confirmation and hands the rendered
// rule-set to nft. Only this file knows the external command exists; the
// renderer itself just produces the file.
func promptAndApply(ctx context.Context, rulesPath string) error {
	fmt.Printf("Apply %s with 'nft -f'? [y/N]: ", rulesPath)

	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("read confirmation: %w", err)
	}
	if !strings.EqualFold(strings.TrimSpace(answer), "y") {
		log.Info("Not applied", "path", rulesPath)
		return nil
	}

	cmd := exec.CommandContext(ctx, "nft", "-f", rulesPath)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("nft -f %s: %w", rulesPath, err)
	}

	log.Info("Rule-set applied", "path", rulesPath)
	return nil
}
