// Package service 提供摄取编排：归一化 -> 存储合并 -> 快照持久化
package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kaoqin/kaoqin/internal/metrics"
	"github.com/kaoqin/kaoqin/pkg/errors"
	"github.com/kaoqin/kaoqin/pkg/logger"
	"github.com/kaoqin/kaoqin/pkg/model"
	"github.com/kaoqin/kaoqin/pkg/normalizer"
	"github.com/kaoqin/kaoqin/pkg/store"
)

// 摄取类别标识，用于日志与监控指标
const (
	KindAttendance = "attendance"
	KindRegional   = "rm_attendance"
	KindDirectory  = "directory"
)

// IngestResult 单次摄取的结果汇总
type IngestResult struct {
	Kind             string `json:"kind"`
	DatesUpdated     int    `json:"dates_updated"`
	RowsSkipped      int    `json:"rows_skipped"`
	EmployeesUpdated int    `json:"employees_updated"`
}

// Service 摄取服务
type Service struct {
	store *store.Store
	paths store.SnapshotPaths
	log   *logger.IngestLogger
}

// New 创建摄取服务
func New(s *store.Store, paths store.SnapshotPaths) *Service {
	return &Service{
		store: s,
		paths: paths,
		log:   logger.NewIngestLogger(),
	}
}

// IngestAttendanceFile 摄取全员考勤文件并持久化快照
//
// 结构化文件（.json）走日期键控合并路径，表格文件走逐行归一化路径。
// 归一化失败时存储保持不变，错误原样上报。
func (svc *Service) IngestAttendanceFile(ctx context.Context, path string) (*IngestResult, error) {
	return svc.ingestAttendance(ctx, path, KindAttendance, model.SourceGeneral)
}

// IngestRegionalManagerFile 摄取区域经理考勤文件并持久化快照
func (svc *Service) IngestRegionalManagerFile(ctx context.Context, path string) (*IngestResult, error) {
	return svc.ingestAttendance(ctx, path, KindRegional, model.SourceRegionalManager)
}

func (svc *Service) ingestAttendance(ctx context.Context, path, kind string, source model.Source) (*IngestResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, errors.CodeTimeout, "摄取请求已取消")
	}

	start := time.Now()
	svc.log.StartIngest(kind, path)

	result, err := svc.mergeAttendance(path, kind, source)
	if err != nil {
		metrics.RecordIngest(kind, false, 0, time.Since(start))
		return nil, err
	}

	if err := svc.persist(); err != nil {
		metrics.RecordIngest(kind, false, result.RowsSkipped, time.Since(start))
		return nil, err
	}

	svc.updateGauges()
	metrics.RecordIngest(kind, true, result.RowsSkipped, time.Since(start))
	svc.log.IngestComplete(kind, result.DatesUpdated, result.RowsSkipped, time.Since(start))
	return result, nil
}

func (svc *Service) mergeAttendance(path, kind string, source model.Source) (*IngestResult, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		data, err := normalizer.ReadStructured(path)
		if err != nil {
			return nil, err
		}
		updated := svc.store.MergeStructured(data, source)
		return &IngestResult{Kind: kind, DatesUpdated: updated}, nil
	}

	table, err := normalizer.ReadTable(path)
	if err != nil {
		return nil, err
	}
	rows, skipped, err := normalizer.AttendanceRows(table)
	if err != nil {
		return nil, err
	}
	if skipped > 0 {
		svc.log.RowSkipped(kind, "日期、邮箱或状态无效")
	}

	var updated int
	if source == model.SourceRegionalManager {
		updated = svc.store.ApplyRegionalManagerBatch(rows)
	} else {
		updated = svc.store.ApplyAttendanceBatch(rows)
	}
	return &IngestResult{Kind: kind, DatesUpdated: updated, RowsSkipped: skipped}, nil
}

// IngestDirectoryFile 摄取员工目录文件并持久化快照
func (svc *Service) IngestDirectoryFile(ctx context.Context, path string) (*IngestResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, errors.CodeTimeout, "摄取请求已取消")
	}

	start := time.Now()
	svc.log.StartIngest(KindDirectory, path)

	table, err := normalizer.ReadTable(path)
	if err != nil {
		metrics.RecordIngest(KindDirectory, false, 0, time.Since(start))
		return nil, err
	}
	rows, skipped, err := normalizer.DirectoryRows(table)
	if err != nil {
		metrics.RecordIngest(KindDirectory, false, 0, time.Since(start))
		return nil, err
	}
	if skipped > 0 {
		svc.log.RowSkipped(KindDirectory, "邮箱无效或必填列为空")
	}

	updated := svc.store.ApplyDirectoryBatch(rows)

	if err := svc.persist(); err != nil {
		metrics.RecordIngest(KindDirectory, false, skipped, time.Since(start))
		return nil, err
	}

	svc.updateGauges()
	metrics.RecordIngest(KindDirectory, true, skipped, time.Since(start))
	svc.log.IngestComplete(KindDirectory, updated, skipped, time.Since(start))
	return &IngestResult{Kind: KindDirectory, EmployeesUpdated: updated, RowsSkipped: skipped}, nil
}

// Refresh 清空存储并从快照目录重载
//
// 重载顺序固定：目录先行，考勤合并时才能补齐显示名与地点。
// 缺失的快照文件按空数据处理，不报错。
func (svc *Service) Refresh(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, errors.CodeTimeout, "刷新请求已取消")
	}

	svc.store.Reset()

	if fileExists(svc.paths.Directory()) {
		table, err := normalizer.ReadTable(svc.paths.Directory())
		if err != nil {
			return err
		}
		rows, _, err := normalizer.DirectoryRows(table)
		if err != nil {
			return err
		}
		svc.store.ApplyDirectoryBatch(rows)
	}

	if fileExists(svc.paths.General()) {
		data, err := normalizer.ReadStructured(svc.paths.General())
		if err != nil {
			return err
		}
		svc.store.MergeStructured(data, model.SourceGeneral)
	}

	if fileExists(svc.paths.Regional()) {
		data, err := normalizer.ReadStructured(svc.paths.Regional())
		if err != nil {
			return err
		}
		svc.store.MergeStructured(data, model.SourceRegionalManager)
	}

	svc.updateGauges()
	logger.Info().
		Int("dates", svc.store.DateCount()).
		Msg("存储已从快照重载")
	return nil
}

// persist 将当前存储状态写入快照
func (svc *Service) persist() error {
	start := time.Now()
	if err := svc.store.WriteSnapshot(svc.paths); err != nil {
		return err
	}
	metrics.RecordSnapshotWrite(time.Since(start))
	return nil
}

// updateGauges 同步存储规模类指标
func (svc *Service) updateGauges() {
	data := svc.store.Snapshot()
	metrics.SetStoreDates("general", len(data.General))
	metrics.SetStoreDates("regional", len(data.Regional))
	metrics.SetDirectorySize(len(data.Employees))
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
