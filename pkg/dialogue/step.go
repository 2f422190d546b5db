package dialogue

// Step identifies one state of the advertiser qualification funnel.
// The set is closed: the machine never enters a step outside this list.
type Step string

const (
	StepWelcome              Step = "WELCOME"
	StepMainMenu             Step = "MAIN_MENU"
	StepAudience             Step = "AUDIENCE"
	StepSolutionsMenu        Step = "SOLUTIONS_MENU"
	StepSolutionsDisplay     Step = "SOLUTIONS_DISPLAY"
	StepSolutionsContent     Step = "SOLUTIONS_CONTENT"
	StepSolutionsVideo       Step = "SOLUTIONS_VIDEO"
	StepSolutionsAudio       Step = "SOLUTIONS_AUDIO"
	StepSolutionsInnovation  Step = "SOLUTIONS_INNOVATION"
	StepSolutionsMag         Step = "SOLUTIONS_MAG"
	StepBudgetClientType     Step = "BUDGET_STEP_CLIENT_TYPE"
	StepBudgetObjective      Step = "BUDGET_STEP_OBJECTIVE"
	StepBudgetAmount         Step = "BUDGET_STEP_AMOUNT"
	StepBudgetRecommendation Step = "BUDGET_RECOMMENDATION"
	StepImmoneuf             Step = "IMMONEUF"
	StepPremium              Step = "PREMIUM"
	StepPartnership          Step = "PARTNERSHIP"
	StepCallBack             Step = "CALL_BACK"
	StepLeadForm             Step = "LEAD_FORM"
	StepLeadCaptured         Step = "LEAD_CAPTURED"
	StepOutOfScope           Step = "OUT_OF_SCOPE"
)

// Slot names form a fixed vocabulary. Anything else in a slot delta is a bug.
const (
	SlotCompany    = "company"
	SlotEmail      = "email"
	SlotPhone      = "phone"
	SlotSector     = "sector"
	SlotBudgetTier = "budget_tier"
	SlotNeedType   = "need_type"
	SlotEntryPath  = "entry_path"
	SlotMessage    = "message"
)

// AllSteps returns every step of the closed set.
func AllSteps() []Step {
	return []Step{
		StepWelcome,
		StepMainMenu,
		StepAudience,
		StepSolutionsMenu,
		StepSolutionsDisplay,
		StepSolutionsContent,
		StepSolutionsVideo,
		StepSolutionsAudio,
		StepSolutionsInnovation,
		StepSolutionsMag,
		StepBudgetClientType,
		StepBudgetObjective,
		StepBudgetAmount,
		StepBudgetRecommendation,
		StepImmoneuf,
		StepPremium,
		StepPartnership,
		StepCallBack,
		StepLeadForm,
		StepLeadCaptured,
		StepOutOfScope,
	}
}

// Valid reports whether s belongs to the closed step set.
func (s Step) Valid() bool {
	for _, step := range AllSteps() {
		if s == step {
			return true
		}
	}
	return false
}

// passthrough steps never wait for user input: the machine enters them,
// appends their message and advances in the same turn.
func (s Step) passthrough() bool {
	return s == StepBudgetRecommendation || s == StepCallBack
}

// ValidSlotName reports whether name belongs to the fixed slot vocabulary.
func ValidSlotName(name string) bool {
	switch name {
	case SlotCompany, SlotEmail, SlotPhone, SlotSector,
		SlotBudgetTier, SlotNeedType, SlotEntryPath, SlotMessage:
		return true
	}
	return false
}
