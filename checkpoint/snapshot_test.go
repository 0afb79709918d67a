package checkpoint

import (
	"errors"
	"testing"

	"github.com/gogpu/mandel"
)

func TestSnapshot_Check(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Snapshot)
		wantErr error
	}{
		{"complete", func(*Snapshot) {}, nil},
		{"empty", func(s *Snapshot) { *s = Snapshot{} }, nil},
		{"bad params", func(s *Snapshot) { s.Params.EndReal = s.Params.StartReal }, mandel.ErrDegenerateGeometry},
		{"bad geometry", func(s *Snapshot) { s.Geometry.TileGridWidth = 7 }, mandel.ErrInvalidGeometry},
		{"overflowing geometry", func(s *Snapshot) {
			*s.Geometry = mandel.GridGeometry{
				ImageWidth: 1 << 32, ImageHeight: 1 << 32,
				TileGridWidth: 1 << 32, TileGridHeight: 1 << 32,
				ThreadGridWidth: 1, ThreadGridHeight: 1,
			}
			s.Progress = &mandel.ProgressState{Tiles: mandel.NewBitmap(0), Threads: mandel.NewBitmap(0)}
		}, mandel.ErrInvalidGeometry},
		{"foreign progress", func(s *Snapshot) {
			s.Progress = mandel.NewProgressState(mandel.GridGeometry{
				ImageWidth: 10, ImageHeight: 10,
				TileGridWidth: 1, TileGridHeight: 1,
				ThreadGridWidth: 1, ThreadGridHeight: 1,
			}, 1)
		}, mandel.ErrInconsistentProgress},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := testSnapshot()
			tt.mutate(s)
			err := s.Check()
			if tt.wantErr == nil && err != nil {
				t.Errorf("Check() = %v, want nil", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Check() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSnapshot_Job(t *testing.T) {
	s := testSnapshot()
	job, err := s.Job()
	if err != nil {
		t.Fatalf("Job() error = %v", err)
	}
	if job.Progress != s.Progress || job.Geometry != *s.Geometry {
		t.Error("job does not reflect the snapshot")
	}

	if _, err := (&Snapshot{Geometry: s.Geometry}).Job(); err == nil {
		t.Error("Job() without parameters should fail")
	}
}

func TestFromJob(t *testing.T) {
	s := testSnapshot()
	job, err := s.Job()
	if err != nil {
		t.Fatal(err)
	}

	snap := FromJob(job)
	job.Progress.MarkThreadComplete(1)
	job.Params.MaxIterations = 1

	if snap.Progress.Threads.IsComplete(1) {
		t.Error("snapshot progress shares bits with the job")
	}
	if snap.Params.MaxIterations == 1 {
		t.Error("snapshot parameters alias the job")
	}
}
