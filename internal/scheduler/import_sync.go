package scheduler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ad-report-engine/infrastructure/parser"
	"github.com/vfg2006/ad-report-engine/infrastructure/repository"
	"github.com/vfg2006/ad-report-engine/internal/config"
	"github.com/vfg2006/ad-report-engine/internal/domain"
)

// ImportSyncConfig representa a configuração do agendador de importação
type ImportSyncConfig struct {
	CronSchedule string
	Directory    string
	SyncEnabled  bool
}

// ImportSyncService varre periodicamente o diretório de importação em busca
// de exportações CSV novas e as persiste como datasets normalizados
type ImportSyncService struct {
	scheduler           *gocron.Scheduler
	config              ImportSyncConfig
	datasetRepo         repository.DatasetRepository
	syncRunning         bool
	syncMutex           sync.Mutex
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
}

// NewImportSyncService cria uma nova instância do serviço de importação
func NewImportSyncService(
	datasetRepo repository.DatasetRepository,
	appConfig *config.Config,
) *ImportSyncService {
	importConfig := ImportSyncConfig{
		CronSchedule: appConfig.ImportSync.CronSchedule,
		Directory:    appConfig.ImportSync.Directory,
		SyncEnabled:  appConfig.ImportSync.Enabled,
	}

	scheduler := gocron.NewScheduler(time.Local)

	logrus.WithFields(logrus.Fields{
		"cron_schedule": importConfig.CronSchedule,
		"directory":     importConfig.Directory,
		"sync_enabled":  importConfig.SyncEnabled,
	}).Info("Configuração do agendador de importação carregada")

	return &ImportSyncService{
		scheduler:   scheduler,
		config:      importConfig,
		datasetRepo: datasetRepo,
		syncRunning: false,
	}
}

// Start inicia o agendador
func (s *ImportSyncService) Start(ctx context.Context) error {
	if !s.config.SyncEnabled {
		logrus.Info("Importação de planilhas desabilitada por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando agendador de importação de planilhas")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		s.syncImportDirectory()
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar importação de planilhas: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando agendador de importação de planilhas")
		s.scheduler.Stop()
	}()

	return nil
}

// RunNow dispara uma varredura imediata fora do agendamento
func (s *ImportSyncService) RunNow() {
	go s.syncImportDirectory()
}

// syncImportDirectory varre o diretório configurado e importa os CSVs novos
func (s *ImportSyncService) syncImportDirectory() {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Importação de planilhas já em andamento, ignorando")
		return
	}
	s.syncRunning = true
	s.syncMutex.Unlock()

	startTime := time.Now()
	s.lastSyncStartedAt = startTime

	defer func() {
		s.syncMutex.Lock()
		s.syncRunning = false
		s.lastSyncCompletedAt = time.Now()
		s.syncMutex.Unlock()
	}()

	logrus.WithField("directory", s.config.Directory).Info("Iniciando varredura do diretório de importação")

	entries, err := os.ReadDir(s.config.Directory)
	if err != nil {
		logrus.WithError(err).Error("Erro ao ler o diretório de importação")
		return
	}

	imported := 0
	skipped := 0
	failed := 0

	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".csv") {
			continue
		}

		ok, err := s.importFile(entry.Name())
		switch {
		case err != nil:
			failed++
		case ok:
			imported++
		default:
			skipped++
		}
	}

	logrus.WithFields(logrus.Fields{
		"imported": imported,
		"skipped":  skipped,
		"failed":   failed,
		"duration": time.Since(startTime).String(),
	}).Info("Varredura do diretório de importação concluída")
}

// importFile importa um único arquivo. Retorna false sem erro quando o
// arquivo já foi importado antes
func (s *ImportSyncService) importFile(fileName string) (bool, error) {
	exists, err := s.datasetRepo.ExistsByFileName(fileName)
	if err != nil {
		logrus.WithError(err).WithField("file", fileName).Error("Erro ao verificar importação anterior")
		return false, err
	}
	if exists {
		return false, nil
	}

	content, err := os.ReadFile(filepath.Join(s.config.Directory, fileName))
	if err != nil {
		logrus.WithError(err).WithField("file", fileName).Error("Erro ao ler arquivo de importação")
		return false, err
	}

	dataset, err := parser.ParseCSV(platformFromFileName(fileName), string(content), fileName, domain.SourceStatic)
	if err != nil {
		logrus.WithError(err).WithField("file", fileName).Error("Erro ao interpretar arquivo de importação")
		return false, err
	}

	if err := s.datasetRepo.Save(dataset); err != nil {
		logrus.WithError(err).WithField("file", fileName).Error("Erro ao salvar dataset importado")
		return false, err
	}

	logrus.WithFields(logrus.Fields{
		"file":     fileName,
		"platform": dataset.Meta.Platform,
		"rows":     len(dataset.Rows),
	}).Info("Arquivo importado")

	return true, nil
}

// platformFromFileName segue a convenção de nomes das exportações: arquivos
// do Google carregam o marcador "-google-" entre conta e mês
func platformFromFileName(fileName string) domain.Platform {
	if strings.Contains(strings.ToLower(fileName), "-google-") {
		return domain.PlatformGoogle
	}
	return domain.PlatformMeta
}
