package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/kaiyos/ethvanity/internal/config"
	"github.com/kaiyos/ethvanity/internal/ethaddr"
	logpkg "github.com/kaiyos/ethvanity/internal/logger"
	minerpkg "github.com/kaiyos/ethvanity/pkg/miner"
	"github.com/kaiyos/ethvanity/pkg/stats"
	"github.com/kaiyos/ethvanity/pkg/types"
)

var cfg = config.NewConfig()

func main() {
	rootCmd := &cobra.Command{
		Use:   "ethvanity",
		Short: "Ethereum vanity address tools",
		Long: `Brute-force search for Ethereum key material whose account address,
or CREATE contract address, matches a vanity pattern.`,
		SilenceUsage: true,
	}

	mineCmd := &cobra.Command{
		Use:   "mine",
		Short: "Search for addresses matching the configured patterns",
		RunE:  runMine,
	}
	mineCmd.Flags().StringArrayVarP(&cfg.Patterns, "pattern", "P", nil, "Pattern spec PREFIX[:SUFFIX]; repeatable")
	mineCmd.Flags().StringVarP(&cfg.Prefix, "prefix", "p", "", "Address prefix to match (hex, without 0x)")
	mineCmd.Flags().StringVarP(&cfg.Suffix, "suffix", "s", "", "Address suffix to match (hex)")
	mineCmd.Flags().BoolVarP(&cfg.Checksum, "checksum", "c", false, "Match case against the EIP-55 checksum rendering")
	mineCmd.Flags().StringVarP(&cfg.Mode, "mode", "m", "eoa", "Search mode: eoa or contract")
	mineCmd.Flags().BoolVarP(&cfg.RawKeys, "raw-keys", "r", false, "EOA mode: mine raw private keys instead of mnemonics")
	mineCmd.Flags().IntVar(&cfg.Words, "words", 12, "Mnemonic length: 12 or 24 words")
	mineCmd.Flags().IntVarP(&cfg.MaxDerivations, "max-derivations", "d", 10, "Address indices checked per mnemonic")
	mineCmd.Flags().Uint64VarP(&cfg.MaxNonce, "max-nonce", "n", 5, "Deployment nonces checked per deployer (contract mode)")
	mineCmd.Flags().IntVarP(&cfg.Workers, "workers", "w", minerpkg.DefaultWorkers(), "Number of worker goroutines")
	mineCmd.Flags().IntVarP(&cfg.ReportInterval, "interval", "i", 5, "Progress report interval in seconds")
	mineCmd.Flags().StringVarP(&cfg.LogFile, "log-file", "l", "", "Log file for run tracking (default: stdout)")
	mineCmd.Flags().StringVarP(&cfg.OutputFile, "output", "o", "", "Append-only file for found matches")

	eoaCmd := &cobra.Command{
		Use:   "eoa MNEMONIC INDEX",
		Short: "Derive the EOA address for a mnemonic and derivation index",
		Args:  cobra.ExactArgs(2),
		RunE:  runEOA,
	}

	contractCmd := &cobra.Command{
		Use:   "contract ADDRESS NONCE",
		Short: "Derive the CREATE contract address for a deployer and nonce",
		Args:  cobra.ExactArgs(2),
		RunE:  runContract,
	}

	rootCmd.AddCommand(mineCmd, eoaCmd, contractCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runMine(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	patterns, err := cfg.ParsePatterns()
	if err != nil {
		return err
	}
	mode, err := cfg.ParseMode()
	if err != nil {
		return err
	}

	logger, err := setupLogging()
	if err != nil {
		return err
	}
	defer logger.Close()

	sink, err := newConsoleSink(logger, cfg.OutputFile)
	if err != nil {
		return err
	}
	defer sink.Close()

	m, err := minerpkg.New(minerpkg.Config{
		Patterns:       patterns,
		Mode:           mode,
		RawKeys:        cfg.RawKeys,
		MnemonicWords:  cfg.Words,
		MaxDerivations: cfg.MaxDerivations,
		MaxNonce:       cfg.MaxNonce,
		Workers:        cfg.Workers,
		ReportInterval: time.Duration(cfg.ReportInterval) * time.Second,
	}, logger, os.Stdout, sink)
	if err != nil {
		return err
	}

	logger.Printf("Searching %s addresses with %d workers", mode, cfg.Workers)
	for _, p := range patterns {
		logger.Printf("Pattern: %s", p)
	}
	switch {
	case mode == types.ModeContract:
		logger.Printf("Checking nonces 0..%d per deployer", cfg.MaxNonce-1)
	case !cfg.RawKeys:
		logger.Printf("Checking %d derivations per %d-word mnemonic", cfg.MaxDerivations, cfg.Words)
	}
	logger.Println("Press Ctrl+C to stop")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		<-sigChan
		fmt.Println()
		logger.Println("Interrupt received, draining workers...")
		m.Stop()
	}()

	snap, err := m.Run(context.Background())
	if err != nil {
		return err
	}
	logger.Printf("Stopped after %s guesses in %s (%.2f guesses/s)",
		stats.FormatCount(snap.TotalGuesses), stats.FormatSeconds(snap.Elapsed.Seconds()), snap.Rate)
	return nil
}

func runEOA(cmd *cobra.Command, args []string) error {
	mnemonic := strings.TrimSpace(args[0])
	index, err := strconv.ParseUint(args[1], 10, 32)
	if err != nil {
		return fmt.Errorf("invalid derivation index %q", args[1])
	}
	d, err := ethaddr.NewAccountDeriver(mnemonic)
	if err != nil {
		return err
	}
	addr, _, err := d.Derive(uint32(index))
	if err != nil {
		return err
	}
	fmt.Printf("Mnemonic: %s\n", mnemonic)
	fmt.Printf("Derivation Path: %s\n", ethaddr.DerivationPath(uint32(index)))
	fmt.Printf("EOA Address: %s\n", ethaddr.Checksum(addr))
	return nil
}

func runContract(cmd *cobra.Command, args []string) error {
	if !common.IsHexAddress(args[0]) {
		return fmt.Errorf("invalid address %q", args[0])
	}
	deployer := common.HexToAddress(args[0])
	nonce, err := strconv.ParseUint(args[1], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid nonce %q", args[1])
	}
	contract := ethaddr.ContractAddress(deployer, nonce)
	fmt.Printf("EOA Address: %s\n", ethaddr.Checksum(deployer))
	fmt.Printf("Nonce: %d\n", nonce)
	fmt.Printf("Contract Address: %s\n", ethaddr.Checksum(contract))
	return nil
}

func setupLogging() (*logpkg.Logger, error) {
	if cfg.LogFile != "" {
		return logpkg.NewFile(cfg.LogFile)
	}
	return logpkg.New(), nil
}
