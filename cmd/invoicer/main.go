package main

import (
	"fmt"
	"os"

	"github.com/aocampo/invoicer/internal/auth"
	"github.com/aocampo/invoicer/internal/bus"
	"github.com/aocampo/invoicer/internal/config"
	"github.com/aocampo/invoicer/internal/db"
	"github.com/aocampo/invoicer/internal/excel"
	httphandler "github.com/aocampo/invoicer/internal/http"
	"github.com/aocampo/invoicer/internal/http/middleware"
	"github.com/aocampo/invoicer/internal/logger"
	"github.com/aocampo/invoicer/internal/pdf"
	"github.com/aocampo/invoicer/internal/pipeline"
	"github.com/aocampo/invoicer/internal/repository"
	"github.com/aocampo/invoicer/internal/service"
	"github.com/aocampo/invoicer/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)

	database, err := db.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	store, err := storage.NewMinIO(cfg.S3)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect object storage")
	}

	invoiceRepo := repository.NewInvoiceRepository(database)
	fileRepo := repository.NewFileRepository(database)
	serviceRepo := repository.NewServiceRepository(database)
	billToRepo := repository.NewBillToRepository(database)
	customerRepo := repository.NewCustomerRepository(database)
	globalRepo := repository.NewGlobalRepository(database)

	orchestrator := pipeline.NewOrchestrator(
		bus.New(),
		invoiceRepo,
		fileRepo,
		serviceRepo,
		billToRepo,
		globalRepo,
		store,
		pdf.NewAssembler(),
		cfg.Pipeline,
		log,
	)
	orchestrator.RegisterHandlers()

	invoiceService := service.NewInvoiceService(invoiceRepo, fileRepo, serviceRepo, store, log)
	fileService := service.NewFileService(fileRepo, serviceRepo, store, log)
	serviceService := service.NewServiceService(serviceRepo, fileRepo)
	customerService := service.NewCustomerService(customerRepo)
	billToService := service.NewBillToService(billToRepo)
	globalService := service.NewGlobalService(globalRepo)
	summaryService := service.NewSummaryService(
		invoiceRepo, fileRepo, customerRepo, store,
		excel.NewGenerator(), cfg.Pipeline.HourColumn, log,
	)

	tokenParser := auth.NewParser(cfg.Auth)
	handler := httphandler.NewHandler(
		orchestrator,
		invoiceService,
		fileService,
		serviceService,
		customerService,
		billToService,
		globalService,
		summaryService,
		log,
	)
	authMiddleware := middleware.Auth(tokenParser)
	router := httphandler.NewRouter(handler, authMiddleware, cfg.Environment)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	log.Info().Str("addr", addr).Msg("starting invoicer service")

	if err := router.Run(addr); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}
