package checkpoint

import (
	"fmt"

	"github.com/gogpu/mandel"
)

// Snapshot gathers the records of one job. Any part may be nil when the
// corresponding record has not been loaded.
type Snapshot struct {
	Params   *mandel.FractalParameters
	Geometry *mandel.GridGeometry
	Progress *mandel.ProgressState
}

// FromJob returns a snapshot of job. The progress is cloned so that the
// snapshot stays stable while workers keep marking bits.
func FromJob(job *mandel.Job) *Snapshot {
	params := job.Params
	geom := job.Geometry
	s := &Snapshot{Params: &params, Geometry: &geom}
	if job.Progress != nil {
		s.Progress = job.Progress.Clone()
	}
	return s
}

// Has reports whether the part of kind k is present. A nil snapshot has
// no parts.
func (s *Snapshot) Has(k Kind) bool {
	if s == nil {
		return false
	}
	switch k {
	case KindFractalParameters:
		return s.Params != nil
	case KindGridGeometry:
		return s.Geometry != nil
	case KindProgressState:
		return s.Progress != nil
	default:
		return false
	}
}

// Check validates every present part and, when both geometry and progress
// are present, that the progress was recorded for that geometry.
func (s *Snapshot) Check() error {
	if s.Params != nil {
		if err := s.Params.Validate(); err != nil {
			return err
		}
	}
	if s.Geometry != nil {
		if err := s.Geometry.Validate(); err != nil {
			return err
		}
		if s.Progress != nil {
			return s.Progress.CheckConsistency(*s.Geometry)
		}
	}
	return nil
}

// Job returns a job built from s. Params and Geometry must be present; the
// progress is used as is when it is consistent with the geometry.
func (s *Snapshot) Job() (*mandel.Job, error) {
	if s.Params == nil || s.Geometry == nil {
		return nil, fmt.Errorf("checkpoint: snapshot lacks %s", s.missing())
	}
	job := &mandel.Job{Params: *s.Params, Geometry: *s.Geometry, Progress: s.Progress}
	if err := job.Validate(); err != nil {
		return nil, err
	}
	return job, nil
}

func (s *Snapshot) missing() string {
	switch {
	case s.Params == nil && s.Geometry == nil:
		return "parameters and geometry"
	case s.Params == nil:
		return "parameters"
	default:
		return "geometry"
	}
}
