package app

import (
	"context"
	"os"
	"runtime"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/mem"
	"github.com/shirou/gopsutil/process"
	"github.com/talkincode/arcatalog/internal/assets"
	"github.com/talkincode/arcatalog/pkg/metrics"
	"go.uber.org/zap"
)

// Gauges written by the monitor jobs
const (
	MetricsSystemCPUUse   = "system_cpuuse"
	MetricsSystemMemUse   = "system_memuse"
	MetricsProcessCPUUse  = "arcatalog_cpuuse"
	MetricsProcessMemUse  = "arcatalog_memuse"
	MetricsAssetsMissing  = "catalog_assets_missing"
	MetricsAssetsVerified = "catalog_assets_checked"
)

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

var startedAt = time.Now()

// SystemInfo host and process resource usage
type SystemInfo struct {
	HostCPUPercent    float64 `json:"hostCpuPercent"`
	HostMemUsedMB     uint64  `json:"hostMemUsedMb"`
	HostMemPercent    float64 `json:"hostMemPercent"`
	ProcessCPUPercent float64 `json:"processCpuPercent"`
	ProcessRSSMB      uint64  `json:"processRssMb"`
	Goroutines        int     `json:"goroutines"`
	Uptime            string  `json:"uptime"`
}

func (a *Application) initJob() {
	loc, err := time.LoadLocation(a.appConfig.System.Location)
	if err != nil {
		loc = time.Local
	}
	a.sched = cron.New(cron.WithLocation(loc), cron.WithParser(cronParser))

	_, err = a.sched.AddFunc("@every 30s", func() {
		go a.SchedSystemMonitorTask()
		go a.SchedProcessMonitorTask()
	})
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	if spec := a.appConfig.Assets.VerifyCron; spec != "" {
		if _, err = a.sched.AddFunc(spec, a.SchedVerifyAssetsTask); err != nil {
			zap.S().Errorf("init asset verify job error %s", err.Error())
		}
	}

	a.sched.Start()
}

// initSubscriptions turns verification results into gauges.
func (a *Application) initSubscriptions() {
	err := a.bus.Subscribe(assets.TopicVerified, func(report assets.Report) {
		metrics.SetGauge(MetricsAssetsMissing, int64(len(report.Missing)))
		metrics.SetGauge(MetricsAssetsVerified, int64(report.Checked))
		if report.OK() {
			zap.L().Info("catalog assets verified", zap.Int("checked", report.Checked))
		}
	})
	if err != nil {
		zap.S().Errorf("subscribe %s error %s", assets.TopicVerified, err.Error())
	}
}

// SchedVerifyAssetsTask asset verification job
func (a *Application) SchedVerifyAssetsTask() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	if _, err := a.VerifyAssets(ctx); err != nil {
		zap.L().Error("asset verification failed", zap.Error(err))
	}
}

// SchedSystemMonitorTask system monitor
func (a *Application) SchedSystemMonitorTask() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	// Collect CPU usage
	_cpuuse, err := cpu.Percent(0, false)
	if err == nil && len(_cpuuse) > 0 {
		metrics.SetGauge(MetricsSystemCPUUse, int64(_cpuuse[0]*100)) // Store as percentage * 100
	}

	// Collect memory usage
	_meminfo, err := mem.VirtualMemory()
	if err == nil {
		metrics.SetGauge(MetricsSystemMemUse, int64(_meminfo.Used/1024/1024)) //nolint:gosec // G115: memory MB value fits in int64
	}
}

// SchedProcessMonitorTask app process monitor
func (a *Application) SchedProcessMonitorTask() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	p, err := process.NewProcess(int32(os.Getpid())) //nolint:gosec // G115: PID is always within int32 range
	if err != nil {
		return
	}

	cpuuse, err := p.CPUPercent()
	if err == nil {
		metrics.SetGauge(MetricsProcessCPUUse, int64(cpuuse*100))
	}

	meminfo, err := p.MemoryInfo()
	if err == nil {
		metrics.SetGauge(MetricsProcessMemUse, int64(meminfo.RSS/1024/1024)) //nolint:gosec // G115: memory MB value fits in int64
	}
}

// SystemInfo samples host and process usage now.
func (a *Application) SystemInfo() SystemInfo {
	info := SystemInfo{
		Goroutines: runtime.NumGoroutine(),
		Uptime:     time.Since(startedAt).Truncate(time.Second).String(),
	}
	if cpus, err := cpu.Percent(0, false); err == nil && len(cpus) > 0 {
		info.HostCPUPercent = cpus[0]
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		info.HostMemUsedMB = vm.Used / 1024 / 1024
		info.HostMemPercent = vm.UsedPercent
	}
	if p, err := process.NewProcess(int32(os.Getpid())); err == nil { //nolint:gosec // G115: PID is always within int32 range
		if c, err := p.CPUPercent(); err == nil {
			info.ProcessCPUPercent = c
		}
		if m, err := p.MemoryInfo(); err == nil {
			info.ProcessRSSMB = m.RSS / 1024 / 1024
		}
	}
	return info
}
