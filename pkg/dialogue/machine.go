package dialogue

import (
	"fmt"
	"strings"

	"advertiser-chatbot-be/pkg/dialogue/guardrail"
	"advertiser-chatbot-be/pkg/dialogue/slots"
)

// Button is one actionable choice presented to the client.
type Button struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Button ids. These are part of the wire contract with the client.
const (
	BtnStart       = "M_START"
	BtnAudience    = "M_AUDIENCE"
	BtnSolutions   = "M_SOLUTIONS"
	BtnBudget      = "M_BUDGET"
	BtnImmoneuf    = "M_IMMONEUF"
	BtnPremium     = "M_PREMIUM"
	BtnPartnership = "M_PARTNERSHIP"
	BtnCallback    = "M_CALLBACK"

	BtnSolDisplay    = "S_DISPLAY"
	BtnSolContent    = "S_CONTENT"
	BtnSolVideo      = "S_VIDEO"
	BtnSolAudio      = "S_AUDIO"
	BtnSolInnovation = "S_INNOVATION"
	BtnSolMag        = "S_MAG"

	BtnClientBrand       = "CT_BRAND"
	BtnClientAgency      = "CT_AGENCY"
	BtnClientInstitution = "CT_INSTITUTION"

	BtnObjAwareness = "OBJ_AWARENESS"
	BtnObjLeads     = "OBJ_LEADS"
	BtnObjLaunch    = "OBJ_LAUNCH"

	BtnBudgetLt1000    = "B_LT_1000"
	BtnBudget1000To3k  = "B_1000_3000"
	BtnBudget3kTo10k   = "B_3000_10000"
	BtnBudgetGt10k     = "B_GT_10000"
	BtnBudgetUnknown   = "B_UNKNOWN"

	BtnLeadForm     = "F_LEAD"
	BtnNavMainMenu  = "NAV_MAIN_MENU"
	BtnNavSolutions = "NAV_SOLUTIONS"
)

// buttonSpec declares a button, its transition target, and the slot values
// that recognizing it implies.
type buttonSpec struct {
	id    string
	label string
	next  Step
	slots map[string]string
}

func navMainMenu() buttonSpec {
	return buttonSpec{id: BtnNavMainMenu, label: "⬅️ Menu principal", next: StepMainMenu}
}

func callbackButton() buttonSpec {
	return buttonSpec{id: BtnCallback, label: "📞 Être rappelé", next: StepCallBack}
}

func leadFormButton(entryPath string) buttonSpec {
	return buttonSpec{
		id:    BtnLeadForm,
		label: "📝 Laisser mes coordonnées",
		next:  StepLeadForm,
		slots: map[string]string{SlotEntryPath: entryPath},
	}
}

// buttonsByStep is the declarative transition table: (step, button id) fully
// determines the next step and slot delta. ValidateTable checks it at startup.
var buttonsByStep = map[Step][]buttonSpec{
	StepWelcome: {
		{id: BtnStart, label: "✅ Commencer", next: StepMainMenu},
	},
	StepMainMenu: {
		{id: BtnAudience, label: "📊 Découvrir notre audience", next: StepAudience},
		{id: BtnSolutions, label: "🧩 Découvrir nos solutions", next: StepSolutionsMenu},
		{id: BtnBudget, label: "💶 Parler budget", next: StepBudgetClientType,
			slots: map[string]string{SlotEntryPath: "budget_wizard"}},
		{id: BtnImmoneuf, label: "🏗️ Projet immobilier neuf", next: StepImmoneuf,
			slots: map[string]string{SlotEntryPath: "immoneuf"}},
		{id: BtnPremium, label: "✨ Offre premium", next: StepPremium,
			slots: map[string]string{SlotEntryPath: "premium"}},
		{id: BtnPartnership, label: "🤝 Devenir partenaire", next: StepPartnership,
			slots: map[string]string{SlotEntryPath: "partnership"}},
		callbackButton(),
	},
	StepAudience: {
		{id: BtnBudget, label: "💶 Parler budget", next: StepBudgetClientType,
			slots: map[string]string{SlotEntryPath: "budget_wizard"}},
		navMainMenu(),
		callbackButton(),
	},
	StepSolutionsMenu: {
		{id: BtnSolDisplay, label: "🖼️ Display", next: StepSolutionsDisplay},
		{id: BtnSolContent, label: "📰 Contenu sponsorisé", next: StepSolutionsContent},
		{id: BtnSolVideo, label: "🎬 Vidéo", next: StepSolutionsVideo},
		{id: BtnSolAudio, label: "🎧 Audio", next: StepSolutionsAudio},
		{id: BtnSolInnovation, label: "🚀 Pack Innovation", next: StepSolutionsInnovation},
		{id: BtnSolMag, label: "📖 TN Le Mag", next: StepSolutionsMag},
		navMainMenu(),
	},
	StepSolutionsDisplay: {
		leadFormButton("solutions_display"),
		{id: BtnNavSolutions, label: "🧩 Autres solutions", next: StepSolutionsMenu},
		navMainMenu(),
		callbackButton(),
	},
	StepSolutionsContent: {
		leadFormButton("solutions_content"),
		{id: BtnNavSolutions, label: "🧩 Autres solutions", next: StepSolutionsMenu},
		navMainMenu(),
		callbackButton(),
	},
	StepSolutionsVideo: {
		leadFormButton("solutions_video"),
		{id: BtnNavSolutions, label: "🧩 Autres solutions", next: StepSolutionsMenu},
		navMainMenu(),
		callbackButton(),
	},
	StepSolutionsAudio: {
		leadFormButton("solutions_audio"),
		{id: BtnNavSolutions, label: "🧩 Autres solutions", next: StepSolutionsMenu},
		navMainMenu(),
		callbackButton(),
	},
	StepSolutionsInnovation: {
		leadFormButton("solutions_innovation"),
		{id: BtnNavSolutions, label: "🧩 Autres solutions", next: StepSolutionsMenu},
		navMainMenu(),
		callbackButton(),
	},
	StepSolutionsMag: {
		leadFormButton("solutions_mag"),
		{id: BtnNavSolutions, label: "🧩 Autres solutions", next: StepSolutionsMenu},
		navMainMenu(),
		callbackButton(),
	},
	StepBudgetClientType: {
		{id: BtnClientBrand, label: "Entreprise / marque", next: StepBudgetObjective,
			slots: map[string]string{SlotSector: "brand"}},
		{id: BtnClientAgency, label: "Agence média", next: StepBudgetObjective,
			slots: map[string]string{SlotSector: "agency"}},
		{id: BtnClientInstitution, label: "Institution / ONG", next: StepBudgetObjective,
			slots: map[string]string{SlotSector: "institution"}},
		navMainMenu(),
	},
	StepBudgetObjective: {
		{id: BtnObjAwareness, label: "Notoriété / image", next: StepBudgetAmount,
			slots: map[string]string{SlotNeedType: "awareness"}},
		{id: BtnObjLeads, label: "Générer des leads / contacts clients", next: StepBudgetAmount,
			slots: map[string]string{SlotNeedType: "leads"}},
		{id: BtnObjLaunch, label: "Lancement produit / promotion", next: StepBudgetAmount,
			slots: map[string]string{SlotNeedType: "launch"}},
		navMainMenu(),
	},
	StepBudgetAmount: {
		{id: BtnBudgetLt1000, label: "Moins de 1 000 TND", next: StepBudgetRecommendation,
			slots: map[string]string{SlotBudgetTier: string(TierUnder1000)}},
		{id: BtnBudget1000To3k, label: "Entre 1 000 et 3 000 TND", next: StepBudgetRecommendation,
			slots: map[string]string{SlotBudgetTier: string(Tier1000To3000)}},
		{id: BtnBudget3kTo10k, label: "Entre 3 000 et 10 000 TND", next: StepBudgetRecommendation,
			slots: map[string]string{SlotBudgetTier: string(Tier3000To10000)}},
		{id: BtnBudgetGt10k, label: "Plus de 10 000 TND", next: StepBudgetRecommendation,
			slots: map[string]string{SlotBudgetTier: string(TierOver10000)}},
		{id: BtnBudgetUnknown, label: "Je ne sais pas encore", next: StepBudgetRecommendation,
			slots: map[string]string{SlotBudgetTier: string(TierUnknown)}},
		navMainMenu(),
	},
	StepImmoneuf: {
		leadFormButton("immoneuf"),
		navMainMenu(),
		callbackButton(),
	},
	StepPremium: {
		leadFormButton("premium"),
		navMainMenu(),
		callbackButton(),
	},
	StepPartnership: {
		leadFormButton("partnership"),
		navMainMenu(),
		callbackButton(),
	},
	StepLeadForm: {
		navMainMenu(),
	},
	StepLeadCaptured: {
		navMainMenu(),
	},
	StepOutOfScope: {
		navMainMenu(),
	},
}

// autoNext chains passthrough steps to the step they advance into.
var autoNext = map[Step]Step{
	StepBudgetRecommendation: StepLeadForm,
	StepCallBack:             StepLeadForm,
}

// Input is one user action: a button click or a free-text message.
// ButtonID takes precedence when both are set.
type Input struct {
	ButtonID string
	Text     string
}

// Result is the machine's decision for one turn.
type Result struct {
	Next            Step
	SlotDelta       map[string]string
	RetrievalNeeded bool
	Generate        bool
	FactualOnly     bool
	Message         string
	Buttons         []Button
	LeadReady       bool
}

// Machine resolves transitions over the declarative table. It holds no
// per-session state: Transition is a pure function of its arguments, so
// replaying the same (step, slots, input) yields the same result.
type Machine struct {
	classifier       *guardrail.Classifier
	retrievalTrigger func(text string) bool
}

type Option func(*Machine)

// WithRetrievalTrigger overrides the predicate deciding whether a free
// question requires knowledge retrieval before generation.
func WithRetrievalTrigger(fn func(text string) bool) Option {
	return func(m *Machine) {
		m.retrievalTrigger = fn
	}
}

func NewMachine(opts ...Option) *Machine {
	m := &Machine{
		classifier:       guardrail.NewClassifier(),
		retrievalTrigger: func(string) bool { return true },
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// ValidateTable checks the transition table at startup: every target step
// must belong to the closed set, every slot name to the fixed vocabulary,
// and every non-passthrough step must present at least one button.
func ValidateTable() error {
	for _, step := range AllSteps() {
		if _, ok := autoNext[step]; ok {
			target := autoNext[step]
			if !target.Valid() {
				return fmt.Errorf("passthrough step %s advances to unknown step %s", step, target)
			}
			continue
		}
		specs, ok := buttonsByStep[step]
		if !ok || len(specs) == 0 {
			return fmt.Errorf("step %s has no buttons and is not passthrough", step)
		}
		for _, spec := range specs {
			if !spec.next.Valid() {
				return fmt.Errorf("button %s in step %s targets unknown step %s", spec.id, step, spec.next)
			}
			for name := range spec.slots {
				if !ValidSlotName(name) {
					return fmt.Errorf("button %s in step %s writes unknown slot %s", spec.id, step, name)
				}
			}
		}
	}
	return nil
}

// ButtonsFor returns the buttons presented in a step.
func ButtonsFor(step Step) []Button {
	specs := buttonsByStep[step]
	buttons := make([]Button, 0, len(specs))
	for _, spec := range specs {
		buttons = append(buttons, Button{ID: spec.id, Label: spec.label})
	}
	return buttons
}

// LeadComplete reports whether the slot set satisfies the mandatory-field
// rule: a company plus at least one way to reach it.
func LeadComplete(slotValues map[string]string) bool {
	if strings.TrimSpace(slotValues[SlotCompany]) == "" {
		return false
	}
	return strings.TrimSpace(slotValues[SlotEmail]) != "" ||
		strings.TrimSpace(slotValues[SlotPhone]) != ""
}

// Transition computes the outcome of one user action.
func (m *Machine) Transition(current Step, slotValues map[string]string, input Input) Result {
	if !current.Valid() {
		current = StepWelcome
	}
	if input.ButtonID != "" {
		return m.transitionButton(current, slotValues, input.ButtonID)
	}
	return m.transitionText(current, slotValues, input.Text)
}

func (m *Machine) transitionButton(current Step, slotValues map[string]string, buttonID string) Result {
	// "Be called back" is reachable from every step.
	if buttonID == BtnCallback {
		return m.enter(StepCallBack, map[string]string{SlotEntryPath: "callback"}, slotValues)
	}

	for _, spec := range buttonsByStep[current] {
		if spec.id != buttonID {
			continue
		}
		delta := make(map[string]string, len(spec.slots))
		for k, v := range spec.slots {
			delta[k] = v
		}
		return m.enter(spec.next, delta, slotValues)
	}

	// Unrecognized button: stay in place and re-present the current menu.
	return Result{
		Next:    current,
		Message: MessageFor(current),
		Buttons: ButtonsFor(current),
	}
}

func (m *Machine) transitionText(current Step, slotValues map[string]string, text string) Result {
	// Callback requests interrupt from any step, before scope classification.
	if m.classifier.IsCallbackRequest(text) {
		return m.enter(StepCallBack, map[string]string{SlotEntryPath: "callback"}, slotValues)
	}

	// Reader intents force OUT_OF_SCOPE from any step. No retrieval, no
	// generation: the redirect copy is fixed.
	cls := m.classifier.Classify(text)
	if cls.Scope == guardrail.ScopeOut {
		return Result{
			Next:    StepOutOfScope,
			Message: MsgOutOfScope,
			Buttons: ButtonsFor(StepOutOfScope),
		}
	}

	switch current {
	case StepWelcome:
		// Any in-scope greeting opens the funnel.
		return m.enter(StepMainMenu, nil, slotValues)

	case StepLeadForm:
		return m.captureLeadSlots(slotValues, text)

	case StepBudgetClientType:
		extracted := slots.Extract(text, []string{slots.NameSector})
		if sector, ok := extracted[slots.NameSector]; ok {
			return m.enter(StepBudgetObjective, map[string]string{SlotSector: sector}, slotValues)
		}
		return Result{Next: current, Message: msgBudgetClientType, Buttons: ButtonsFor(current)}

	case StepBudgetObjective:
		answer := strings.TrimSpace(text)
		if answer != "" && len(answer) <= 60 {
			return m.enter(StepBudgetAmount, map[string]string{SlotNeedType: answer}, slotValues)
		}
		return Result{Next: current, Message: msgBudgetObjective, Buttons: ButtonsFor(current)}

	case StepBudgetAmount:
		if tier, ok := ParseTier(text); ok {
			return m.enter(StepBudgetRecommendation, map[string]string{SlotBudgetTier: string(tier)}, slotValues)
		}
		// Could not read an amount: re-ask rather than guess.
		return Result{Next: current, Message: msgBudgetAmount, Buttons: ButtonsFor(current)}
	}

	// A free question inside the current step: generation request, not a
	// transition trigger.
	return Result{
		Next:            current,
		RetrievalNeeded: m.retrievalTrigger(text),
		Generate:        true,
		FactualOnly:     cls.FactualOnly,
		Buttons:         ButtonsFor(current),
	}
}

// captureLeadSlots merges whatever the lead form turn yields and advances to
// LEAD_CAPTURED only once the mandatory-field rule holds. Anything less
// re-prompts the missing field; it never errors.
func (m *Machine) captureLeadSlots(slotValues map[string]string, text string) Result {
	expected := []string{slots.NameEmail, slots.NamePhone}
	if strings.TrimSpace(slotValues[SlotCompany]) == "" {
		expected = append(expected, slots.NameCompany)
	}

	delta := map[string]string{}
	for name, value := range slots.Extract(text, expected) {
		if ValidSlotName(name) {
			delta[name] = value
		}
	}

	merged := mergeSlots(slotValues, delta)
	if LeadComplete(merged) {
		return Result{
			Next:      StepLeadCaptured,
			SlotDelta: delta,
			LeadReady: true,
			Message:   msgLeadCaptured,
			Buttons:   ButtonsFor(StepLeadCaptured),
		}
	}

	return Result{
		Next:      StepLeadForm,
		SlotDelta: delta,
		Message:   leadFormPrompt(merged),
		Buttons:   ButtonsFor(StepLeadForm),
	}
}

// enter resolves the target step, chaining through passthrough steps and
// collecting their message segments along the way.
func (m *Machine) enter(next Step, delta map[string]string, slotValues map[string]string) Result {
	if delta == nil {
		delta = map[string]string{}
	}
	merged := mergeSlots(slotValues, delta)

	var parts []string
	for next.passthrough() {
		switch next {
		case StepCallBack:
			parts = append(parts, MsgCallbackIntro)
		case StepBudgetRecommendation:
			tier := BudgetTier(merged[SlotBudgetTier])
			if msg, ok := RecommendationFor(tier); ok {
				parts = append(parts, msg)
			} else {
				parts = append(parts, msgBudgetUnknown)
			}
		}
		next = autoNext[next]
	}

	if next == StepLeadForm && LeadComplete(merged) {
		// Everything needed is already on file; no reason to re-ask.
		parts = append(parts, msgLeadCaptured)
		return Result{
			Next:      StepLeadCaptured,
			SlotDelta: delta,
			LeadReady: true,
			Message:   strings.Join(parts, "\n\n"),
			Buttons:   ButtonsFor(StepLeadCaptured),
		}
	}

	if next == StepLeadForm {
		parts = append(parts, leadFormPrompt(merged))
	} else {
		parts = append(parts, MessageFor(next))
	}

	return Result{
		Next:      next,
		SlotDelta: delta,
		Message:   strings.Join(parts, "\n\n"),
		Buttons:   ButtonsFor(next),
	}
}

func leadFormPrompt(slotValues map[string]string) string {
	if strings.TrimSpace(slotValues[SlotCompany]) == "" {
		return promptCompany
	}
	return promptContact
}

func mergeSlots(base, delta map[string]string) map[string]string {
	merged := make(map[string]string, len(base)+len(delta))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range delta {
		merged[k] = v
	}
	return merged
}
