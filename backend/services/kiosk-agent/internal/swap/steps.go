package swap

// Step is the ordered kiosk screen shown for a state.
type Step int

const (
	StepCardScan Step = iota + 1
	StepReturnBattery
	StepChecking
	StepTakeBattery
	StepComplete
)

// TotalSteps is the number of screens in one swap.
const TotalSteps = int(StepComplete)

// Instructions is what the kiosk renders for a step.
type Instructions struct {
	Step        Step   `json:"step"`
	Title       string `json:"title"`
	Description string `json:"description"`
	// Confirmable marks the step where the operator acknowledges the new battery.
	Confirmable bool `json:"confirmable,omitempty"`
}

var instructions = [...]Instructions{
	{Step: StepCardScan, Title: "Please touch your card", Description: "Place your RFID card on the scanner"},
	{Step: StepReturnBattery, Title: "Please return batteries", Description: "Insert your discharged batteries into the slots"},
	{Step: StepChecking, Title: "Please wait a moment", Description: "Checking batteries status"},
	{Step: StepTakeBattery, Title: "Please take out batteries", Description: "Remove the fully charged batteries", Confirmable: true},
	{Step: StepComplete, Title: "Swap Complete", Description: "Battery swap successful. Have a safe journey!"},
}

// InstructionsFor returns the screen for step; out of range steps fall back to the card scan screen.
func InstructionsFor(step Step) Instructions {
	if step < StepCardScan || step > StepComplete {
		return instructions[0]
	}
	return instructions[step-1]
}

// StepFor maps a session status to its screen.
func StepFor(status Status) Step {
	switch status {
	case StatusAuthenticated:
		return StepReturnBattery
	case StatusBatteryReturnInitiated:
		return StepChecking
	case StatusNewBatteryAssigned:
		return StepTakeBattery
	case StatusComplete:
		return StepComplete
	default:
		return StepCardScan
	}
}
