package episim

import "testing"

func TestTrajectoryHelpers(t *testing.T) {
	traj := Trajectory{
		{Time: 0, S: 990, I: 10, R: 0},
		{Time: 0.1, S: 950, I: 45, R: 5},
		{Time: 0.2, S: 900, I: 80, R: 20},
		{Time: 0.3, S: 880, I: 60, R: 60},
	}
	if got := traj.PeakInfected(); got != 80 {
		t.Fatalf("PeakInfected = %v", got)
	}
	if got := traj.FinalSize(); got != 60 {
		t.Fatalf("FinalSize = %v", got)
	}
	if got := traj.Final(); got != traj[3] {
		t.Fatalf("Final = %+v", got)
	}
	inf := traj.Infected()
	if len(inf) != 4 || inf[0] != 10 || inf[2] != 80 {
		t.Fatalf("Infected = %v", inf)
	}
}

func TestTrajectoryEmpty(t *testing.T) {
	var traj Trajectory
	if traj.PeakInfected() != 0 || traj.FinalSize() != 0 {
		t.Fatal("empty trajectory must yield zero stats")
	}
	if traj.Final() != (State{}) {
		t.Fatal("empty trajectory must yield the zero state")
	}
}
