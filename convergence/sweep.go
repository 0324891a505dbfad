package convergence

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"runtime"
	"sort"
	"sync"

	"github.com/bcdannyboy/lattice/models"
	"github.com/shirou/gopsutil/cpu"
	"github.com/sirupsen/logrus"
	mpb "github.com/vbauerster/mpb/v7"
	"github.com/vbauerster/mpb/v7/decor"
	"gonum.org/v1/gonum/stat"
)

const jobBatchSize = 64

var ErrNoSteps = errors.New("no step counts to sweep")

type Config struct {
	Spot     float64
	Strike   float64
	Maturity float64
	Rate     float64
	Sigma    float64
	Kind     models.OptionKind
	Steps    []int

	// Workers defaults to the number of logical CPUs.
	Workers int
	// Progress, when set, receives a progress bar.
	Progress io.Writer
	Logger   logrus.FieldLogger
}

// Point is the lattice price at one step count with CRR factors.
type Point struct {
	Steps    int     `json:"steps"`
	Up       float64 `json:"up"`
	Down     float64 `json:"down"`
	Price    float64 `json:"price"`
	Error    float64 `json:"error"`
	AbsError float64 `json:"abs_error"`
}

type Report struct {
	BlackScholes float64 `json:"black_scholes"`
	Points       []Point `json:"points"`
	// Order is the slope of log|error| against log N; about -1 for CRR.
	Order          float64 `json:"order"`
	OrderEstimated bool    `json:"order_estimated"`
}

// DoublingSteps returns count step counts starting at start and doubling.
func DoublingSteps(start, count int) []int {
	steps := make([]int, 0, count)
	for i, n := 0, start; i < count; i, n = i+1, n*2 {
		steps = append(steps, n)
	}
	return steps
}

// Sweep prices the lattice at every step count in cfg.Steps concurrently and
// compares each price with the Black-Scholes value.
func Sweep(ctx context.Context, cfg Config) (Report, error) {
	if len(cfg.Steps) == 0 {
		return Report{}, ErrNoSteps
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	closed, err := models.PriceBlackScholes(cfg.Spot, cfg.Strike, cfg.Maturity, cfg.Rate, cfg.Sigma, cfg.Kind)
	if err != nil {
		return Report{}, fmt.Errorf("reference price: %w", err)
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = logicalCPUs()
	}
	if workers > len(cfg.Steps) {
		workers = len(cfg.Steps)
	}
	logger.WithFields(logrus.Fields{
		"points":  len(cfg.Steps),
		"workers": workers,
	}).Debug("starting convergence sweep")

	var (
		p   *mpb.Progress
		bar *mpb.Bar
	)
	if cfg.Progress != nil {
		p = mpb.New(mpb.WithOutput(cfg.Progress), mpb.WithWidth(64))
		bar = p.AddBar(int64(len(cfg.Steps)),
			mpb.PrependDecorators(
				decor.Name("Steps"),
				decor.Percentage(decor.WCSyncSpace),
			),
			mpb.AppendDecorators(
				decor.CountersNoUnit("(%d / %d)", decor.WCSyncSpace),
			),
		)
	}

	points, err := processJobs(ctx, cfg, closed, workers, bar)
	if p != nil {
		if err != nil {
			bar.Abort(false)
		}
		p.Wait()
	}
	if err != nil {
		return Report{}, err
	}

	sort.Slice(points, func(i, j int) bool {
		return points[i].Steps < points[j].Steps
	})

	report := Report{BlackScholes: closed, Points: points}
	report.Order, report.OrderEstimated = estimateOrder(points)
	return report, nil
}

func processJobs(ctx context.Context, cfg Config, closed float64, numWorkers int, bar *mpb.Bar) ([]Point, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	jobChan := make(chan int, jobBatchSize)
	resultChan := make(chan Point, jobBatchSize)

	var errOnce sync.Once
	var firstErr error
	fail := func(err error) {
		errOnce.Do(func() {
			firstErr = err
			cancel()
		})
	}

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for steps := range jobChan {
				if ctx.Err() != nil {
					continue
				}
				point, err := pricePoint(cfg, closed, steps)
				if err != nil {
					fail(err)
					continue
				}
				resultChan <- point
				if bar != nil {
					bar.Increment()
				}
			}
		}()
	}

	go func() {
		defer close(jobChan)
		for _, steps := range cfg.Steps {
			select {
			case jobChan <- steps:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	points := make([]Point, 0, len(cfg.Steps))
	for point := range resultChan {
		points = append(points, point)
	}

	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil && len(points) < len(cfg.Steps) {
		return nil, err
	}
	return points, nil
}

func pricePoint(cfg Config, closed float64, steps int) (Point, error) {
	up, down, err := models.CRRFactors(cfg.Sigma, cfg.Maturity, steps)
	if err != nil {
		return Point{}, fmt.Errorf("steps %d: %w", steps, err)
	}

	price, err := models.PriceBinomial(models.BinomialParams{
		Spot:     cfg.Spot,
		Strike:   cfg.Strike,
		Maturity: cfg.Maturity,
		Rate:     cfg.Rate,
		Steps:    steps,
		Up:       up,
		Down:     down,
		Kind:     cfg.Kind,
	})
	if err != nil {
		return Point{}, fmt.Errorf("steps %d: %w", steps, err)
	}

	diff := price - closed
	return Point{
		Steps:    steps,
		Up:       up,
		Down:     down,
		Price:    price,
		Error:    diff,
		AbsError: math.Abs(diff),
	}, nil
}

// estimateOrder regresses log|error| on log N over the points with a non-zero
// error. It needs at least two such points.
func estimateOrder(points []Point) (float64, bool) {
	var xs, ys []float64
	for _, p := range points {
		if p.AbsError == 0 || p.Steps < 1 {
			continue
		}
		xs = append(xs, math.Log(float64(p.Steps)))
		ys = append(ys, math.Log(p.AbsError))
	}
	if len(xs) < 2 {
		return 0, false
	}

	_, slope := stat.LinearRegression(xs, ys, nil, false)
	return slope, true
}

func logicalCPUs() int {
	if n, err := cpu.Counts(true); err == nil && n > 0 {
		return n
	}
	return runtime.NumCPU()
}
