package telemetry

import (
	"fmt"
	"strconv"
	"time"

	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/gridline/racesim/internal/queue"
	"github.com/gridline/racesim/pkg/core"
)

// Measurement is the InfluxDB measurement lap points are written under.
const Measurement = "lap"

// PointWriter accepts one point at a time.
type PointWriter interface {
	WritePoint(p *influxdb2_write.Point) error
}

// Sink queues lap points and hands them to a PointWriter in batches.
type Sink struct {
	w     PointWriter
	q     *queue.Queue[*influxdb2_write.Point]
	batch int
}

// NewSink creates a sink. A non-positive batch size flushes everything at once.
func NewSink(w PointWriter, batchSize int) *Sink {
	return &Sink{
		w:     w,
		q:     queue.New[*influxdb2_write.Point](),
		batch: batchSize,
	}
}

// Enqueue queues every lap of a race. It returns the number of points added.
func (s *Sink) Enqueue(r *core.Race) int {
	points := LapPoints(r)
	s.q.Push(points...)
	return len(points)
}

// Pending returns the number of queued points.
func (s *Sink) Pending() int {
	return s.q.Len()
}

// Flush writes all queued points. It stops at the first write error; points
// not yet written are dropped.
func (s *Sink) Flush() (int, error) {
	written := 0
	for !s.q.Empty() {
		var batch []*influxdb2_write.Point
		if s.batch > 0 {
			batch = s.q.PopN(s.batch)
		} else {
			batch = s.q.GetAndEmpty()
		}
		for _, p := range batch {
			if err := s.w.WritePoint(p); err != nil {
				s.q.Clear()
				return written, fmt.Errorf("failed to write lap point: %w", err)
			}
			written++
		}
	}
	return written, nil
}

type carKey struct {
	number int
	name   string
}

// LapPoints converts a race's lap chart into points. Each point is stamped at
// the race start plus the car's cumulative time at the end of the lap.
func LapPoints(r *core.Race) []*influxdb2_write.Point {
	elapsed := make(map[carKey]float64)
	points := make([]*influxdb2_write.Point, 0, len(r.Laps))
	for _, lap := range r.Laps {
		k := carKey{lap.Number, lap.Competitor}
		elapsed[k] += lap.Time
		ts := r.Time.Add(time.Duration(elapsed[k] * float64(time.Second)))
		points = append(points, influxdb2_write.NewPoint(
			Measurement,
			map[string]string{
				"race":       r.ID,
				"round":      strconv.Itoa(r.Round),
				"circuit":    r.Circuit.Name,
				"competitor": lap.Competitor,
				"number":     strconv.Itoa(lap.Number),
				"condition":  string(r.Weather.Condition),
			},
			map[string]interface{}{
				"lap":      lap.Lap,
				"time":     lap.Time,
				"position": lap.Position,
			},
			ts,
		))
	}
	return points
}
