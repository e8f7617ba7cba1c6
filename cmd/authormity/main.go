// Package main is the entry point of the Authormity service.
// It wires the Kratos application with its HTTP and gRPC servers and the
// scheduled publisher.
package main

import (
	"flag"
	"os"

	"Authormity/internal/conf"
	zapLogger "Authormity/pkg/log"

	"github.com/go-kratos/kratos/v2"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/middleware/tracing"
	"github.com/go-kratos/kratos/v2/transport/grpc"
	"github.com/go-kratos/kratos/v2/transport/http"
	"github.com/robfig/cron/v3"

	_ "go.uber.org/automaxprocs"
)

// go build -ldflags "-X main.Version=x.y.z"
var (
	// Name is the name of the compiled software.
	Name = "authormity"
	// Version is the version of the compiled software.
	Version string
	// flagconf is the config flag.
	flagconf string

	id, _ = os.Hostname()
)

func init() {
	flag.StringVar(&flagconf, "conf", "../../configs/config.yaml", "config path, eg: -conf config.yaml")
}

func newApp(logger log.Logger, gs *grpc.Server, hs *http.Server, publisher *cron.Cron) *kratos.App {
	opts := []kratos.Option{
		kratos.ID(id),
		kratos.Name(Name),
		kratos.Version(Version),
		kratos.Metadata(map[string]string{}),
		kratos.Logger(logger),
		kratos.Server(
			gs,
			hs,
		),
	}
	if publisher != nil {
		opts = append(opts, withCron(publisher)...)
	}
	return kratos.New(opts...)
}

func main() {
	flag.Parse()

	// Viper 加载配置，支持环境变量覆盖
	bc, err := conf.NewBootstrap(flagconf)
	if err != nil {
		// Zap 尚未初始化，使用默认 logger
		log.Fatalf("failed to load configuration: %v", err)
	}

	zapLog, err := zapLogger.NewZapLogger(bc.Log)
	if err != nil {
		log.Fatalf("failed to initialize zap logger: %v", err)
	}
	defer zapLog.Sync()

	logger := zapLogger.NewKratosAdapter(zapLog)
	logger = log.With(logger,
		"service.id", id,
		"service.name", Name,
		"service.version", Version,
		"trace.id", tracing.TraceID(),
		"span.id", tracing.SpanID(),
	)

	zapLogger.NewLogHelper(logger).Startup("Authormity service starting",
		"log.level", bc.Log.Level,
		"log.format", bc.Log.Format,
		"log.output_file", bc.Log.OutputFile,
		"db.driver", bc.Data.Database.Driver,
		"scheduler.enabled", bc.Scheduler.Enabled,
	)

	app, cleanup, err := wireApp(
		bc.Server,
		bc.Data,
		bc.Auth,
		bc.LinkedIn,
		bc.LLM,
		bc.Billing,
		bc.Scheduler,
		bc.RateLimit,
		logger,
	)
	if err != nil {
		panic(err)
	}
	defer cleanup()

	// start and wait for stop signal
	if err := app.Run(); err != nil {
		panic(err)
	}
}
