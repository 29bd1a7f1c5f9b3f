package probe

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-logr/logr"
)

// ErrorPrefix starts the text returned by a failed probe.
const ErrorPrefix = "Error executing the command: "

// Probe names accepted by Run.
const (
	RunningTime      = "runningtime"
	MemUsage         = "memusage"
	DiskUsage        = "diskusage"
	RunningProcesses = "runningprocesses"
	CPULoad          = "cpuload"
)

// ErrUnknownProbe is returned by Run for a name that is not a probe.
var ErrUnknownProbe = errors.New("unknown probe")

type command struct {
	name string
	args []string
}

var commands = map[string]command{
	RunningTime:      {"uptime", nil},
	MemUsage:         {"free", []string{"-m"}},
	DiskUsage:        {"df", []string{"-h"}},
	RunningProcesses: {"ps", []string{"-e", "-o", "command"}},
	CPULoad:          {"ps", []string{"-e", "-o", "pcpu"}},
}

// Names returns every probe name in a stable order.
func Names() []string {
	return []string{RunningTime, MemUsage, DiskUsage, RunningProcesses, CPULoad}
}

// Recorder counts probe calls. Implemented by metrics.Recorder.
type Recorder interface {
	ObserveProbe(name string, ok bool)
}

// Prober runs health probes. It holds no state between calls.
type Prober struct {
	exec     Executor
	log      logr.Logger
	recorder Recorder
}

// Option configures a Prober.
type Option func(*Prober)

// WithRecorder counts every probe call.
func WithRecorder(r Recorder) Option {
	return func(p *Prober) {
		p.recorder = r
	}
}

// New creates a Prober running commands through exec.
func New(exec Executor, log logr.Logger, opts ...Option) *Prober {
	p := &Prober{exec: exec, log: log.WithName("probe")}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// RunningTime reports how long the machine has been up.
func (p *Prober) RunningTime(ctx context.Context) string {
	return p.raw(ctx, RunningTime)
}

// MemUsage reports memory usage in megabytes.
func (p *Prober) MemUsage(ctx context.Context) string {
	return p.raw(ctx, MemUsage)
}

// DiskUsage reports filesystem usage.
func (p *Prober) DiskUsage(ctx context.Context) string {
	return p.raw(ctx, DiskUsage)
}

// RunningProcesses lists the command line of every process.
func (p *Prober) RunningProcesses(ctx context.Context) string {
	return p.raw(ctx, RunningProcesses)
}

// CPULoad reports the summed CPU percentage of every process, e.g. "7.0%".
func (p *Prober) CPULoad(ctx context.Context) string {
	out, err := p.execute(ctx, CPULoad)
	if err != nil {
		return ErrorPrefix + err.Error()
	}
	return FormatPercent(SumCPU(out))
}

// Run dispatches to the probe called name.
func (p *Prober) Run(ctx context.Context, name string) (string, error) {
	switch name {
	case RunningTime:
		return p.RunningTime(ctx), nil
	case MemUsage:
		return p.MemUsage(ctx), nil
	case DiskUsage:
		return p.DiskUsage(ctx), nil
	case RunningProcesses:
		return p.RunningProcesses(ctx), nil
	case CPULoad:
		return p.CPULoad(ctx), nil
	default:
		return "", fmt.Errorf("%w %q (valid: %s)", ErrUnknownProbe, name, strings.Join(Names(), ", "))
	}
}

func (p *Prober) raw(ctx context.Context, probe string) string {
	out, err := p.execute(ctx, probe)
	if err != nil {
		return ErrorPrefix + err.Error()
	}
	return out
}

func (p *Prober) execute(ctx context.Context, probe string) (string, error) {
	c := commands[probe]
	p.log.Info("Command executed: "+CommandLine(c.name, c.args...), "probe", probe)

	out, err := p.exec.Output(ctx, c.name, c.args...)
	if p.recorder != nil {
		p.recorder.ObserveProbe(probe, err == nil)
	}
	if err != nil {
		p.log.Error(err, "Execution failed", "probe", probe)
		return "", err
	}
	return out, nil
}

// SumCPU adds the numeric lines of `ps -o pcpu` output. The header and any
// other non-numeric line count as zero.
func SumCPU(out string) float64 {
	var sum float64
	for _, line := range strings.Split(out, "\n") {
		v, err := strconv.ParseFloat(strings.TrimSpace(line), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		sum += v
	}
	return sum
}

// FormatPercent renders sum rounded to one decimal, followed by "%".
func FormatPercent(sum float64) string {
	return strconv.FormatFloat(math.Round(sum*10)/10, 'f', 1, 64) + "%"
}
