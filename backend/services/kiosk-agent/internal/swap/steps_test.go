package swap

import "testing"

func TestInstructionsFor(t *testing.T) {
	titles := map[Step]string{
		StepCardScan:      "Please touch your card",
		StepReturnBattery: "Please return batteries",
		StepChecking:      "Please wait a moment",
		StepTakeBattery:   "Please take out batteries",
		StepComplete:      "Swap Complete",
	}
	for step, title := range titles {
		got := InstructionsFor(step)
		if got.Step != step || got.Title != title {
			t.Fatalf("InstructionsFor(%d) = %+v", step, got)
		}
		if got.Confirmable != (step == StepTakeBattery) {
			t.Fatalf("step %d confirmable = %v", step, got.Confirmable)
		}
	}
	if got := InstructionsFor(0); got.Step != StepCardScan {
		t.Fatalf("out of range step fell back to %d", got.Step)
	}
	if got := InstructionsFor(9); got.Step != StepCardScan {
		t.Fatalf("out of range step fell back to %d", got.Step)
	}
}

func TestStepFor(t *testing.T) {
	cases := map[Status]Step{
		StatusAuthenticated:          StepReturnBattery,
		StatusBatteryReturnInitiated: StepChecking,
		StatusNewBatteryAssigned:     StepTakeBattery,
		StatusComplete:               StepComplete,
		Status("unknown"):            StepCardScan,
	}
	for status, want := range cases {
		if got := StepFor(status); got != want {
			t.Fatalf("StepFor(%q) = %d, want %d", status, got, want)
		}
	}
}
