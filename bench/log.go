package bench

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

var (
	sweepColumns    = []string{"Spheres", "Iterations", "Distance", "FrameRate", "RayCount"}
	standardColumns = []string{"Spheres", "Iterations", "Distance", "Plane", "LightMoving", "Refraction", "FrameRate", "RayCount"}
)

// LogName derives the log file name from the sweep axis. Iteration and distance
// sweeps carry the sphere count when it was given explicitly, and every
// non-standard sweep is marked when refraction is off.
func LogName(s Settings) string {
	name := s.Axis.String()
	if s.Axis == AxisStandard {
		return name + ".txt"
	}
	if s.SpheresSet && (s.Axis == AxisIterations || s.Axis == AxisDistance) {
		name += "_" + strconv.Itoa(s.Spheres)
	}
	if !s.Refraction {
		name += "_NoRefraction"
	}
	return name + ".txt"
}

// LogWriter writes the tab-separated results table.
type LogWriter struct {
	w        *bufio.Writer
	closer   io.Closer
	standard bool
}

func NewLogWriter(w io.Writer, standard bool) *LogWriter {
	l := &LogWriter{w: bufio.NewWriter(w), standard: standard}
	if c, ok := w.(io.Closer); ok {
		l.closer = c
	}
	return l
}

// CreateLog creates the log file for s inside dir and writes its header.
func CreateLog(dir string, s Settings) (*LogWriter, string, error) {
	path := filepath.Join(dir, LogName(s))
	f, err := os.Create(path)
	if err != nil {
		return nil, "", fmt.Errorf("create log %s: %w", path, err)
	}
	l := NewLogWriter(f, s.Axis == AxisStandard)
	if err := l.WriteHeader(); err != nil {
		f.Close()
		return nil, "", err
	}
	return l, path, nil
}

func (l *LogWriter) Columns() []string {
	if l.standard {
		return standardColumns
	}
	return sweepColumns
}

func (l *LogWriter) WriteHeader() error {
	if _, err := fmt.Fprintln(l.w, strings.Join(l.Columns(), "\t")); err != nil {
		return err
	}
	return l.w.Flush()
}

func flag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// WriteRow appends one measured configuration and flushes it to the file.
func (l *LogWriter) WriteRow(c Config, frameRate, rayCount float64) error {
	fields := []string{
		strconv.Itoa(c.Spheres),
		strconv.Itoa(c.Iterations),
		strconv.FormatFloat(float64(c.Distance), 'g', -1, 32),
	}
	if l.standard {
		fields = append(fields, flag(c.Plane), flag(c.LightMoving), flag(c.Refraction))
	}
	fields = append(fields,
		strconv.FormatInt(int64(math.Round(frameRate)), 10),
		strconv.FormatInt(int64(math.Round(rayCount)), 10),
	)
	if _, err := fmt.Fprintln(l.w, strings.Join(fields, "\t")); err != nil {
		return err
	}
	return l.w.Flush()
}

func (l *LogWriter) Close() error {
	if err := l.w.Flush(); err != nil {
		return err
	}
	if l.closer != nil {
		return l.closer.Close()
	}
	return nil
}
