package dataset

import (
	"bufio"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Rosa-Hornero/Footstep-Counter/internal/fsutil"
	"github.com/Rosa-Hornero/Footstep-Counter/internal/monitoring"
)

// HARSampleRate is the fixed sampling rate of the UCI HAR inertial signals.
const HARSampleRate = 50.0

// Activity is a UCI HAR activity label.
type Activity int

const (
	Walking Activity = iota + 1
	WalkingUpstairs
	WalkingDownstairs
	Sitting
	Standing
	Laying
)

func (a Activity) String() string {
	switch a {
	case Walking:
		return "WALKING"
	case WalkingUpstairs:
		return "WALKING_UPSTAIRS"
	case WalkingDownstairs:
		return "WALKING_DOWNSTAIRS"
	case Sitting:
		return "SITTING"
	case Standing:
		return "STANDING"
	case Laying:
		return "LAYING"
	}
	return fmt.Sprintf("Activity(%d)", int(a))
}

// HARConfig selects one subject and activity from a UCI HAR dataset tree.
type HARConfig struct {
	Root       string   // directory containing train/ and test/
	Split      string   // "train" or "test"
	SubjectID  int      // 1..30
	ActivityID Activity // 1..6
}

// DefaultHARConfig returns the selection used for quick looks at the data:
// subject 5 walking, from the training split.
func DefaultHARConfig(root string) HARConfig {
	return HARConfig{
		Root:       root,
		Split:      "train",
		SubjectID:  5,
		ActivityID: Walking,
	}
}

func (c HARConfig) signalPath(axis string) string {
	return filepath.Join(c.Root, c.Split, "Inertial Signals", fmt.Sprintf("body_acc_%s_%s.txt", axis, c.Split))
}

func (c HARConfig) labelsPath() string {
	return filepath.Join(c.Root, c.Split, fmt.Sprintf("y_%s.txt", c.Split))
}

func (c HARConfig) subjectsPath() string {
	return filepath.Join(c.Root, c.Split, fmt.Sprintf("subject_%s.txt", c.Split))
}

// LoadHAR reads the body acceleration windows for the selected subject and
// activity and concatenates them, in file order, into one recording. The
// windows overlap in the source dataset, so the result is only
// pseudo-continuous.
func LoadHAR(fsys fsutil.FileSystem, cfg HARConfig) (*Recording, error) {
	if cfg.Split != "train" && cfg.Split != "test" {
		return nil, fmt.Errorf("%w: %q (want train or test)", ErrUnknownSplit, cfg.Split)
	}

	labels, err := readInts(fsys, cfg.labelsPath())
	if err != nil {
		return nil, err
	}
	subjects, err := readInts(fsys, cfg.subjectsPath())
	if err != nil {
		return nil, err
	}
	if len(labels) != len(subjects) {
		return nil, fmt.Errorf("%w: %d labels but %d subjects", ErrMalformed, len(labels), len(subjects))
	}

	selected := make([]bool, len(labels))
	count := 0
	for i := range labels {
		if subjects[i] == cfg.SubjectID && Activity(labels[i]) == cfg.ActivityID {
			selected[i] = true
			count++
		}
	}
	if count == 0 {
		return nil, fmt.Errorf("%w: subject %d, activity %s in %s", ErrNoWindows, cfg.SubjectID, cfg.ActivityID, cfg.Split)
	}

	axes := make([][]float64, 3)
	for n, axis := range []string{"x", "y", "z"} {
		axes[n], err = readWindows(fsys, cfg.signalPath(axis), selected)
		if err != nil {
			return nil, err
		}
	}

	monitoring.Debugf("dataset: %s subject %d %s: %d windows, %d samples", cfg.Split, cfg.SubjectID, cfg.ActivityID, count, len(axes[0]))

	return &Recording{
		X:          axes[0],
		Y:          axes[1],
		Z:          axes[2],
		SampleRate: HARSampleRate,
		Source:     fmt.Sprintf("UCI HAR %s subject %d %s", cfg.Split, cfg.SubjectID, cfg.ActivityID),
		Windows:    count,
	}, nil
}

// readWindows reads a whitespace-separated matrix with one window per row
// and returns the selected rows concatenated. All rows must have the same
// width and the row count must match len(selected).
func readWindows(fsys fsutil.FileSystem, path string, selected []bool) ([]float64, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var out []float64
	width := -1
	row := 0
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		if width < 0 {
			width = len(fields)
		} else if len(fields) != width {
			return nil, fmt.Errorf("%w: %s row %d has %d values, want %d", ErrMalformed, path, row+1, len(fields), width)
		}
		if row >= len(selected) {
			return nil, fmt.Errorf("%w: %s has more rows than the %d labels", ErrMalformed, path, len(selected))
		}
		if selected[row] {
			for _, s := range fields {
				v, err := strconv.ParseFloat(s, 64)
				if err != nil {
					return nil, fmt.Errorf("%w: %s row %d: %v", ErrMalformed, path, row+1, err)
				}
				out = append(out, v)
			}
		}
		row++
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if row != len(selected) {
		return nil, fmt.Errorf("%w: %s has %d rows, want %d", ErrMalformed, path, row, len(selected))
	}
	return out, nil
}

func readInts(fsys fsutil.FileSystem, path string) ([]int, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var out []int
	sc := bufio.NewScanner(f)
	line := 0
	for sc.Scan() {
		line++
		s := strings.TrimSpace(sc.Text())
		if s == "" {
			continue
		}
		v, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %s line %d: %v", ErrMalformed, path, line, err)
		}
		out = append(out, v)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return out, nil
}
