package app

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"geowall/internal/config"
	"geowall/internal/database"
	"geowall/internal/domain"
	"geowall/internal/feed"
	"geowall/internal/geolite"
	"geowall/internal/groups"
	"geowall/internal/nftables"
	"geowall/internal/resolve"
	"geowall/internal/store"
	"geowall/internal/support"
)

const (
	defaultGroup  = "brics"
	defaultPolicy = "block"
)

func Run() error {
	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found. Falling back to system environment variables.")
	}

	groupFlag := flag.String("group", defaultGroup, fmt.Sprintf("Country group to resolve (%s)", strings.Join(groups.Names(), ", ")))
	policyFlag := flag.String("policy", defaultPolicy, "Rule-set policy: allow or block")
	outFlag := flag.String("out", "", "Output directory (overrides settings)")
	concurrencyFlag := flag.Int("concurrency", 0, "Parallel country fetches (overrides settings)")
	applyFlag := flag.Bool("apply", false, "Prompt to load the rendered rule-set with 'nft -f'")
	historyFlag := flag.Int("history", 0, "Print the N most recent archived runs and exit")
	verboseFlag := flag.Bool("verbose", false, "Enable debug logging")
	flag.Parse()

	if *verboseFlag {
		log.SetLevel(log.DebugLevel)
	}

	config.ReadSettings()
	cfg := config.GetConfig()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *historyFlag > 0 {
		return printHistory(ctx, cfg, *historyFlag)
	}

	groupName := support.GetEnv("GEOWALL_GROUP", *groupFlag)
	countries, err := groups.Lookup(groupName)
	if err != nil {
		return err
	}

	policy, err := domain.ParsePolicy(support.GetEnv("GEOWALL_POLICY", *policyFlag))
	if err != nil {
		return err
	}

	concurrency := *concurrencyFlag
	if concurrency <= 0 {
		concurrency = int(cfg.Feeds.Concurrency)
	}

	log.Info("Resolving country group",
		"group", groupName,
		"policy", policy,
		"countries", len(countries),
		"concurrency", concurrency,
	)

	startedAt := time.Now().UTC()
	client := feed.NewClient(time.Duration(cfg.Feeds.Timeout)*time.Second, cfg.Feeds.UserAgent)

	directory, err := resolve.Run(ctx, countries, resolve.Options{
		Client:      client,
		IPv4Base:    cfg.Feeds.IPv4Base,
		IPv6Base:    cfg.Feeds.IPv6Base,
		Concurrency: concurrency,
	})
	if err != nil {
		return err
	}

	outDir := *outFlag
	if outDir == "" {
		outDir = cfg.Output.Directory
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("create output directory %s: %w", outDir, err)
	}

	mapPath := filepath.Join(outDir, groupName+"_ip_map.json")
	rulesPath := filepath.Join(outDir, fmt.Sprintf("%s_%s.nft", groupName, policy))

	if err := store.WriteIPMap(directory, mapPath); err != nil {
		return err
	}
	if err := nftables.Render(directory, groupName, policy, rulesPath); err != nil {
		return err
	}

	runGeoLiteCheck(cfg, directory)
	archiveRun(ctx, cfg, directory, groupName, policy, mapPath, rulesPath, startedAt)

	log.Info("Wrote ip map", "path", mapPath)
	log.Info("Wrote rule-set", "path", rulesPath)

	if *applyFlag {
		return promptAndApply(ctx, rulesPath)
	}
	return nil
}

// runGeoLiteCheck samples the resolved prefixes against a local
// GeoLite2-Country database when one is installed. Advisory only.
func runGeoLiteCheck(cfg config.Config, directory *domain.Directory) {
	checker, err := geolite.OpenIfPresent(cfg.GeoLite.DatabasePath, int(cfg.GeoLite.SampleSize))
	if err != nil {
		log.Warn("Skipping GeoLite cross-check", "error", err)
		return
	}
	if checker == nil {
		log.Debug("No GeoLite database installed, skipping cross-check", "path", cfg.GeoLite.DatabasePath)
		return
	}
	defer checker.Close()

	checked, mismatched := checker.VerifyDirectory(directory)
	log.Info("GeoLite cross-check finished", "checked", checked, "mismatched", mismatched)
}

// archiveRun records the run in the local SQLite archive. The artifacts on
// disk are the product; a broken archive only warns.
func archiveRun(ctx context.Context, cfg config.Config, directory *domain.Directory, groupName string, policy domain.Policy, mapPath, rulesPath string, startedAt time.Time) {
	if !cfg.Archive.Enabled {
		return
	}
	if _, err := database.SetupArchive(cfg.Archive.Path); err != nil {
		log.Warn("Failed to open run archive", "path", cfg.Archive.Path, "error", err)
		return
	}

	run := &domain.ResolutionRun{
		GroupName:  groupName,
		Policy:     policy.String(),
		Countries:  directory.Len(),
		MapPath:    mapPath,
		RulesPath:  rulesPath,
		StartedAt:  startedAt,
		FinishedAt: time.Now().UTC(),
	}

	var countryStats []domain.RunCountry
	for _, code := range directory.Codes() {
		entry := directory.Get(code)
		run.IPv4Blocks += len(entry.IPv4)
		run.IPv6Blocks += len(entry.IPv6)
		countryStats = append(countryStats, domain.RunCountry{
			Code:       entry.Code,
			Name:       entry.Name,
			IPv4Blocks: len(entry.IPv4),
			IPv6Blocks: len(entry.IPv6),
		})
	}

	if sum, err := support.FileChecksum(mapPath); err == nil {
		run.MapChecksum = sum
	}
	if sum, err := support.FileChecksum(rulesPath); err == nil {
		run.RulesChecksum = sum
	}

	if err := database.SaveRun(ctx, run, countryStats); err != nil {
		log.Warn("Failed to archive run", "error", err)
		return
	}
	log.Debug("Archived run", "id", run.ID)
}

func printHistory(ctx context.Context, cfg config.Config, limit int) error {
	if _, err := database.SetupArchive(cfg.Archive.Path); err != nil {
		return err
	}
	runs, err := database.RecentRuns(ctx, limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		log.Info("No archived runs yet")
		return nil
	}
	for _, run := range runs {
		log.Info("Archived run",
			"id", run.ID,
			"group", run.GroupName,
			"policy", run.Policy,
			"countries", run.Countries,
			"ipv4_blocks", run.IPv4Blocks,
			"ipv6_blocks", run.IPv6Blocks,
			"rules_checksum", run.RulesChecksum,
			"finished_at", run.FinishedAt.Format(time.RFC3339),
		)
	}
	return nil
}
