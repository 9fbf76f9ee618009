package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"orgbackup/internal/appConfig"
	"orgbackup/internal/archive"
	"orgbackup/internal/backup"
	"orgbackup/internal/backupCommand"
	"orgbackup/internal/backupCommand/terminalView"
	"orgbackup/internal/color"
	"orgbackup/internal/github"
	"orgbackup/internal/gitrepo"
	logger "orgbackup/internal/log"
	"orgbackup/internal/metrics"
	"orgbackup/internal/upload"
	"orgbackup/internal/view"
	typex "orgbackup/type"
)

func main() {
	os.Exit(run())
}

func run() int {
	startTime := time.Now()

	// Process parameters
	var configFile, org, output, bucket typex.NullableString
	var verbose = typex.NullableBool{}
	flag.Var(&configFile, "config", fmt.Sprintf("Config file (default: %s in the working or home directory)", appConfig.DefaultConfigFileName))
	flag.Var(&org, "org", "GitHub organization to back up")
	flag.Var(&output, "output", "Directory for the repository archives")
	flag.Var(&bucket, "bucket", "S3 bucket receiving the archives")
	flag.Var(&verbose, "verbose", "Print verbose output")
	flag.Parse()

	color.SetEnabled(view.IsTerminal(os.Stdout))

	config, err := loadConfig(configFile.Val(""))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		return 1
	}
	config.Organization = org.Val(config.Organization)
	config.OutputDirectory = output.Val(config.OutputDirectory)
	config.Bucket = bucket.Val(config.Bucket)
	config.Verbose = verbose.Val(config.Verbose)
	if err := config.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		return 1
	}

	logCloser, err := logger.InitLogger(config.Verbose, config.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log file %s: %v\n", config.LogFile, err)
		return 1
	}
	defer logCloser.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	uploader, err := upload.NewS3Uploader(ctx, upload.Options{
		Region:       config.S3Region,
		Endpoint:     config.S3Endpoint,
		UsePathStyle: config.S3UsePathStyle,
	})
	if err != nil {
		logger.Log.Errorf("Failed to load AWS configuration: %v", err)
		return 1
	}

	token := config.RetrieveTokenFromEnv()
	if token == "" {
		logger.Log.Debugf("GitHub token env variable %s not set; listing without authentication", config.TokenEnvVar)
	}

	deps := backupCommand.Dependencies{
		Lister: github.NewRepositoryAPI(config.APIURL, token, config.PageSize, &http.Client{Timeout: time.Minute}),
		Pipeline: &backup.Pipeline{
			OutputDirectory: config.OutputDirectory,
			Cloner:          gitrepo.GitCloner{Binary: config.GitBinary, Timeout: config.CloneTimeout},
			Archiver:        archive.ZipArchiver{},
		},
		Uploader: uploader,
		Metrics:  metrics.NewRecorder(),
	}

	summary, err := backupCommand.ExecuteBackupCommand(ctx, config, deps)
	if err != nil {
		logger.Log.Errorf("Backup of %s aborted: %v", color.FgRed(config.Organization), err)
		return 1
	}

	terminalView.NewBackupCommandView(summary.BackupCommandViewModel, os.Stdout, startTime, time.Since).
		Render(view.TerminalWidth(os.Stdout))
	return 0
}

func loadConfig(configFile string) (*appConfig.AppConfig, error) {
	if configFile == "" {
		var err error
		if configFile, err = appConfig.FindConfigFile(appConfig.DefaultConfigFileName); err != nil {
			return nil, err
		}
	}
	config, err := appConfig.LoadConfig(configFile)
	if err != nil {
		return nil, err
	}
	config.ApplyEnv(os.LookupEnv)
	return config, nil
}
