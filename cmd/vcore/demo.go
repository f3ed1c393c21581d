package main

import (
	"bufio"
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/pozdnyavladimer-jpg/vcore-topological-chip/adapter"
	"github.com/pozdnyavladimer-jpg/vcore-topological-chip/adapter/bioseq"
	"github.com/pozdnyavladimer-jpg/vcore-topological-chip/adapter/chemformula"
	"github.com/pozdnyavladimer-jpg/vcore-topological-chip/adapter/linguistics"
	"github.com/pozdnyavladimer-jpg/vcore-topological-chip/config"
	"github.com/pozdnyavladimer-jpg/vcore-topological-chip/engine"
	"github.com/pozdnyavladimer-jpg/vcore-topological-chip/errors"
	"github.com/pozdnyavladimer-jpg/vcore-topological-chip/lattice"
	"github.com/pozdnyavladimer-jpg/vcore-topological-chip/packet"
	"github.com/pozdnyavladimer-jpg/vcore-topological-chip/seed"
)

func runWords(cliCfg *CLIConfig, cfg config.Config, logger *slog.Logger) error {
	words, err := readInputs(cliCfg.Args)
	if err != nil {
		return err
	}
	var packets []packet.Packet
	ling := linguistics.New()
	for _, word := range words {
		packets = append(packets, ling.Packet(word))
	}
	return runDemo(cliCfg, cfg, logger, packets)
}

func runFormula(cliCfg *CLIConfig, cfg config.Config, logger *slog.Logger) error {
	formulas, err := readInputs(cliCfg.Args)
	if err != nil {
		return err
	}
	return runDemo(cliCfg, cfg, logger, adapterPackets(chemformula.New(), formulas))
}

func runSequence(cliCfg *CLIConfig, cfg config.Config, logger *slog.Logger) error {
	sequences, err := readInputs(cliCfg.Args)
	if err != nil {
		return err
	}
	return runDemo(cliCfg, cfg, logger, adapterPackets(bioseq.New(), sequences))
}

// readInputs returns the command arguments, or whitespace-separated tokens
// from stdin when no arguments were given.
func readInputs(args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}

	var inputs []string
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		inputs = append(inputs, strings.Fields(scanner.Text())...)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	if len(inputs) == 0 {
		return nil, fmt.Errorf("no input: pass arguments or pipe to stdin")
	}
	return inputs, nil
}

func runDesign(cliCfg *CLIConfig) error {
	spec := bioseq.DefaultDesignSpec()
	spec.Seed = cliCfg.DesignSeed

	seq := bioseq.Design(spec)
	fmt.Println("SEQ:", seq)

	counts := bioseq.Stats(seq)
	for layer := 1; layer <= lattice.Layers; layer++ {
		fmt.Printf("%d %-10s %s (%d)\n",
			layer, lattice.LayerName(layer),
			strings.Repeat("⬢", counts[layer]), counts[layer])
	}
	return nil
}

func adapterPackets(producer adapter.Producer, inputs []string) []packet.Packet {
	var packets []packet.Packet
	for _, input := range inputs {
		packets = append(packets, producer.Packets(input)...)
	}
	return packets
}

func runDemo(cliCfg *CLIConfig, cfg config.Config, logger *slog.Logger, packets []packet.Packet) error {
	ctx := context.Background()

	var store *seed.FileStore
	if cliCfg.SeedDir != "" {
		var err error
		store, err = seed.NewFileStore(cliCfg.SeedDir)
		if err != nil {
			return err
		}
	}

	eng, err := buildEngine(ctx, cliCfg, cfg, logger, store)
	if err != nil {
		return err
	}

	for _, pkt := range packets {
		placement, err := eng.Ingest(pkt)
		if err != nil {
			logger.Warn("packet rejected", "content", pkt.Content, "error", err)
			continue
		}
		printPlacement(pkt, placement)
	}

	printSummary(eng.Summarize())

	if cliCfg.Save && store != nil {
		snapshot := seed.Snapshot(eng)
		if err := store.Save(ctx, seedKey(cfg), snapshot); err != nil {
			return err
		}
		logger.Info("seed saved", "seed_id", snapshot.ID, "dir", cliCfg.SeedDir)
	}
	return nil
}

func buildEngine(ctx context.Context, cliCfg *CLIConfig, cfg config.Config,
	logger *slog.Logger, store *seed.FileStore) (*engine.Engine, error) {
	if cliCfg.Resume && store != nil {
		snapshot, err := store.Load(ctx, seedKey(cfg))
		if err == nil {
			logger.Info("resuming from seed", "seed_id", snapshot.ID, "created_at", snapshot.CreatedAt)
			return seed.Restore(snapshot, cfg.Engine, engine.WithLogger(logger))
		}
		if !stderrors.Is(err, errors.ErrSeedNotFound) {
			return nil, err
		}
		logger.Info("no seed found, starting fresh")
	}
	return engine.New(cfg.Engine, engine.WithLogger(logger))
}

func seedKey(cfg config.Config) string {
	if cfg.Service.SeedKey != "" {
		return cfg.Service.SeedKey
	}
	return "current"
}

func printPlacement(pkt packet.Packet, placement engine.Placement) {
	note := ""
	if placement.State.IsSingularity() {
		note = " | BINDU"
	} else if placement.Anomaly != "" {
		note = " | anomaly=" + placement.Anomaly
	}

	region := "-"
	if !placement.State.IsSingularity() {
		region = placement.State.Region().String()
	}

	fmt.Printf("%-12s | state=%-5s region=%-4s coh=%.2f seq=%d%s\n",
		pkt.Content, placement.State, region, placement.Coherence, placement.Seq, note)
}

func printSummary(summary engine.Summary) {
	fmt.Println("\nLATTICE:")
	peak := uint64(1)
	for _, count := range summary.Occupancy {
		if count > peak {
			peak = count
		}
	}
	for layer := lattice.Layers; layer >= 1; layer-- {
		count := summary.Occupancy[layer]
		width := int(count * 24 / peak)
		bar := strings.Repeat("⬢", width) + strings.Repeat("⬡", 24-width)
		fmt.Printf("%d %-10s %s (%d)\n", layer, lattice.LayerName(layer), bar, count)
	}

	regions := make([]string, 0, len(summary.RegionDistribution))
	for region := range summary.RegionDistribution {
		regions = append(regions, region)
	}
	sort.Strings(regions)
	parts := make([]string, 0, len(regions))
	for _, region := range regions {
		parts = append(parts, fmt.Sprintf("%s=%.2f", region, summary.RegionDistribution[region]))
	}

	fmt.Printf("\npackets=%d singularities=%d %s\n",
		summary.PacketsIngested, summary.SingularityCount, strings.Join(parts, " "))

	axis := make([]string, 0, 3)
	for _, layer := range []int{lattice.AxisRoot, lattice.AxisHeart, lattice.AxisCrown} {
		mark := " "
		if summary.AxisFlags[layer] {
			mark = "x"
		}
		axis = append(axis, fmt.Sprintf("[%s]%d", mark, layer))
	}
	fmt.Printf("axis: %s\n", strings.Join(axis, " "))
}
