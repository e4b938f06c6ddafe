package mirror

import (
	"context"
	"fmt"

	"encore.dev/rlog"
	"encore.dev/storage/sqldb"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"

	"github.com/webhookdb/mirror/mirror/business/dispatch"
	"github.com/webhookdb/mirror/mirror/business/entity"
	"github.com/webhookdb/mirror/mirror/business/syncer"
	"github.com/webhookdb/mirror/mirror/domain"
	"github.com/webhookdb/mirror/mirror/middleware/idempotency"
	"github.com/webhookdb/mirror/mirror/queue"
	"github.com/webhookdb/mirror/mirror/ratelimit"
	"github.com/webhookdb/mirror/mirror/store"
	"github.com/webhookdb/mirror/mirror/upstream"
	"github.com/webhookdb/mirror/mirror/workflow"
)

var mirrorDB = sqldb.NewDatabase("mirror", sqldb.DatabaseConfig{
	Migrations: "./db/migrations",
})

var secrets struct {
	GitHubToken         string
	GitHubWebhookSecret string
}

//encore:service
type Service struct {
	dispatcher dispatch.Dispatcher
	entities   entity.Business
	tasks      queue.Queue
	governor   *ratelimit.Governor
	deliveries idempotency.Ledger

	webhookSecret string

	temporal client.Client
	worker   worker.Worker
}

func initService() (*Service, error) {
	pgxdb := sqldb.Driver(mirrorDB)

	rlog.Info("Initializing Store")
	st := store.NewStore(pgxdb)

	entities, err := entity.NewEntityBusiness(domain.NewReplicationGuard(pgxdb, st))
	if err != nil {
		return nil, fmt.Errorf("entity business: %w", err)
	}

	upstreamCfg := cfg.Upstream
	github := upstream.NewClient(upstream.Options{
		BaseURL:           upstreamCfg.BaseURL(),
		Token:             secrets.GitHubToken,
		UserAgent:         upstreamCfg.UserAgent(),
		RequestsPerSecond: upstreamCfg.RequestsPerSecond(),
	})
	governor := ratelimit.NewGovernor()
	sync := syncer.NewSyncBusiness(github, governor, entities, syncer.Options{
		PageSize: upstreamCfg.PageSize(),
	})

	svc := &Service{
		entities:      entities,
		governor:      governor,
		deliveries:    idempotency.NewCacheLedger(),
		webhookSecret: secrets.GitHubWebhookSecret,
	}

	switch backend := cfg.Queue.Backend(); backend {
	case "local":
		rlog.Info("Using in-process task queue")
		svc.tasks = queue.NewLocalQueue(sync)
	case "temporal":
		if err := svc.startTemporal(sync); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown queue backend %q", backend)
	}

	svc.dispatcher = dispatch.NewDispatcher(sync, svc.tasks)
	return svc, nil
}

func (s *Service) startTemporal(sync syncer.Business) error {
	queueCfg := cfg.Queue
	c, err := client.Dial(client.Options{
		HostPort:  queueCfg.TemporalHost(),
		Namespace: queueCfg.Namespace(),
	})
	if err != nil {
		return fmt.Errorf("create temporal client: %w", err)
	}

	taskQueue := queueCfg.TaskQueue()
	if taskQueue == "" {
		taskQueue = workflow.TaskQueue
	}

	workflow.SetActivityDependencies(sync)
	w := worker.New(c, taskQueue, worker.Options{})
	w.RegisterWorkflow(workflow.SyncTask)
	w.RegisterActivity(workflow.RunTaskActivity)
	if err := w.Start(); err != nil {
		c.Close()
		return fmt.Errorf("start temporal worker: %w", err)
	}
	rlog.Info("Started temporal worker", "host", queueCfg.TemporalHost(), "task_queue", taskQueue)

	s.temporal = c
	s.worker = w
	s.tasks = queue.NewTemporalQueue(c, taskQueue, queueCfg.MaxAttempts())
	return nil
}

func (s *Service) Shutdown(force context.Context) {
	if s.worker != nil {
		s.worker.Stop()
	}
	if s.temporal != nil {
		s.temporal.Close()
	}
}
