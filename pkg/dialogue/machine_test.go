package dialogue

import (
	"strings"
	"testing"
)

func TestValidateTable(t *testing.T) {
	if err := ValidateTable(); err != nil {
		t.Fatalf("ValidateTable() = %v", err)
	}
}

func TestTransitionClosedSet(t *testing.T) {
	m := NewMachine()

	// Every button of every step lands inside the closed set.
	for _, step := range AllSteps() {
		for _, btn := range ButtonsFor(step) {
			res := m.Transition(step, nil, Input{ButtonID: btn.ID})
			if !res.Next.Valid() {
				t.Errorf("step %s button %s landed on unknown step %s", step, btn.ID, res.Next)
			}
			for name := range res.SlotDelta {
				if !ValidSlotName(name) {
					t.Errorf("step %s button %s wrote unknown slot %s", step, btn.ID, name)
				}
			}
		}
	}
}

func TestTransitionIsDeterministic(t *testing.T) {
	m := NewMachine()
	slots := map[string]string{SlotCompany: "Acme"}
	input := Input{ButtonID: BtnBudget}

	first := m.Transition(StepMainMenu, slots, input)
	second := m.Transition(StepMainMenu, slots, input)

	if first.Next != second.Next || first.Message != second.Message {
		t.Errorf("same input produced %s/%s then %s/%s",
			first.Next, first.Message, second.Next, second.Message)
	}
}

func TestBudgetWizardHappyPath(t *testing.T) {
	m := NewMachine()
	slots := map[string]string{}

	res := m.Transition(StepMainMenu, slots, Input{ButtonID: BtnBudget})
	if res.Next != StepBudgetClientType {
		t.Fatalf("after M_BUDGET, step = %s, want %s", res.Next, StepBudgetClientType)
	}
	if res.SlotDelta[SlotEntryPath] != "budget_wizard" {
		t.Errorf("entry_path = %q, want budget_wizard", res.SlotDelta[SlotEntryPath])
	}
	slots = mergeSlots(slots, res.SlotDelta)

	res = m.Transition(res.Next, slots, Input{ButtonID: BtnClientAgency})
	if res.Next != StepBudgetObjective {
		t.Fatalf("after CT_AGENCY, step = %s, want %s", res.Next, StepBudgetObjective)
	}
	if res.SlotDelta[SlotSector] != "agency" {
		t.Errorf("sector = %q, want agency", res.SlotDelta[SlotSector])
	}
	slots = mergeSlots(slots, res.SlotDelta)

	res = m.Transition(res.Next, slots, Input{ButtonID: BtnObjLeads})
	if res.Next != StepBudgetAmount {
		t.Fatalf("after OBJ_LEADS, step = %s, want %s", res.Next, StepBudgetAmount)
	}
	slots = mergeSlots(slots, res.SlotDelta)

	res = m.Transition(res.Next, slots, Input{ButtonID: BtnBudget3kTo10k})
	if res.Next != StepLeadForm {
		t.Fatalf("after B_3000_10000, step = %s, want %s", res.Next, StepLeadForm)
	}
	if res.SlotDelta[SlotBudgetTier] != string(Tier3000To10000) {
		t.Errorf("budget_tier = %q, want %s", res.SlotDelta[SlotBudgetTier], Tier3000To10000)
	}
	if !strings.Contains(res.Message, "pack complet") {
		t.Errorf("recommendation missing from message: %q", res.Message)
	}
	if !strings.Contains(res.Message, promptCompany) {
		t.Errorf("lead form prompt missing from message: %q", res.Message)
	}
}

func TestBudgetUnknownForcesLeadForm(t *testing.T) {
	m := NewMachine()

	res := m.Transition(StepBudgetAmount, nil, Input{ButtonID: BtnBudgetUnknown})
	if res.Next != StepLeadForm {
		t.Fatalf("after B_UNKNOWN, step = %s, want %s", res.Next, StepLeadForm)
	}
	if !strings.Contains(res.Message, msgBudgetUnknown) {
		t.Errorf("unknown-budget copy missing from message: %q", res.Message)
	}
}

func TestBudgetAmountFreeText(t *testing.T) {
	m := NewMachine()

	res := m.Transition(StepBudgetAmount, nil, Input{Text: "environ 2500 dinars"})
	if res.Next != StepLeadForm {
		t.Fatalf("step = %s, want %s", res.Next, StepLeadForm)
	}
	if res.SlotDelta[SlotBudgetTier] != string(Tier1000To3000) {
		t.Errorf("budget_tier = %q, want %s", res.SlotDelta[SlotBudgetTier], Tier1000To3000)
	}

	// Unreadable amounts re-ask instead of guessing.
	res = m.Transition(StepBudgetAmount, nil, Input{Text: "on verra bien"})
	if res.Next != StepBudgetAmount {
		t.Errorf("unparsable amount moved to %s, want to stay", res.Next)
	}
	if res.Generate {
		t.Error("re-ask should not trigger generation")
	}
}

func TestCallbackInterruptsFromAnyStep(t *testing.T) {
	m := NewMachine()

	for _, step := range []Step{StepMainMenu, StepAudience, StepSolutionsVideo, StepBudgetObjective} {
		res := m.Transition(step, nil, Input{ButtonID: BtnCallback})
		if res.Next != StepLeadForm {
			t.Errorf("M_CALLBACK from %s landed on %s, want %s", step, res.Next, StepLeadForm)
		}
		if res.SlotDelta[SlotEntryPath] != "callback" {
			t.Errorf("entry_path = %q, want callback", res.SlotDelta[SlotEntryPath])
		}
		if !strings.Contains(res.Message, MsgCallbackIntro) {
			t.Errorf("callback intro missing from message: %q", res.Message)
		}
	}

	res := m.Transition(StepAudience, nil, Input{Text: "pouvez-vous me rappeler demain ?"})
	if res.Next != StepLeadForm {
		t.Errorf("text callback request landed on %s, want %s", res.Next, StepLeadForm)
	}
}

func TestOutOfScopeRedirect(t *testing.T) {
	m := NewMachine()

	res := m.Transition(StepSolutionsDisplay, nil, Input{Text: "il y a une erreur dans votre article d'hier"})
	if res.Next != StepOutOfScope {
		t.Fatalf("step = %s, want %s", res.Next, StepOutOfScope)
	}
	if res.Generate || res.RetrievalNeeded {
		t.Error("out-of-scope turn must not retrieve or generate")
	}
	if res.Message != MsgOutOfScope {
		t.Errorf("message = %q, want fixed redirect copy", res.Message)
	}
}

func TestLeadFormProgressiveCapture(t *testing.T) {
	m := NewMachine()

	// Company alone is not enough.
	res := m.Transition(StepLeadForm, map[string]string{}, Input{Text: "Société Meubles Karim"})
	if res.Next != StepLeadForm {
		t.Fatalf("step = %s, want to stay in %s", res.Next, StepLeadForm)
	}
	if res.SlotDelta[SlotCompany] == "" {
		t.Fatal("company not captured")
	}
	if res.LeadReady {
		t.Error("lead marked ready without a contact channel")
	}
	if res.Message != promptContact {
		t.Errorf("message = %q, want contact prompt", res.Message)
	}

	slots := mergeSlots(map[string]string{}, res.SlotDelta)
	res = m.Transition(StepLeadForm, slots, Input{Text: "mon email est karim@meubles.tn"})
	if res.Next != StepLeadCaptured {
		t.Fatalf("step = %s, want %s", res.Next, StepLeadCaptured)
	}
	if !res.LeadReady {
		t.Error("lead not marked ready")
	}
	if res.SlotDelta[SlotEmail] != "karim@meubles.tn" {
		t.Errorf("email = %q", res.SlotDelta[SlotEmail])
	}
}

func TestLeadFormPhoneOnlyContact(t *testing.T) {
	m := NewMachine()

	slots := map[string]string{SlotCompany: "Clinique Pasteur"}
	res := m.Transition(StepLeadForm, slots, Input{Text: "appelez le 22 555 123"})
	if res.Next != StepLeadCaptured {
		t.Fatalf("step = %s, want %s", res.Next, StepLeadCaptured)
	}
	if !res.LeadReady {
		t.Error("lead not marked ready with company+phone")
	}
}

func TestEnterLeadFormSkipsWhenComplete(t *testing.T) {
	m := NewMachine()

	slots := map[string]string{
		SlotCompany: "Acme",
		SlotEmail:   "contact@acme.tn",
	}
	res := m.Transition(StepPremium, slots, Input{ButtonID: BtnLeadForm})
	if res.Next != StepLeadCaptured {
		t.Fatalf("step = %s, want %s (mandatory slots already filled)", res.Next, StepLeadCaptured)
	}
	if !res.LeadReady {
		t.Error("lead not marked ready")
	}
}

func TestUnknownButtonStaysPut(t *testing.T) {
	m := NewMachine()

	res := m.Transition(StepMainMenu, nil, Input{ButtonID: "NOT_A_BUTTON"})
	if res.Next != StepMainMenu {
		t.Errorf("unknown button moved to %s, want to stay", res.Next)
	}
	if len(res.Buttons) == 0 {
		t.Error("menu not re-presented after unknown button")
	}
}

func TestFreeQuestionRequestsGeneration(t *testing.T) {
	triggered := false
	m := NewMachine(WithRetrievalTrigger(func(text string) bool {
		triggered = true
		return strings.Contains(text, "audience")
	}))

	res := m.Transition(StepAudience, nil, Input{Text: "quelle est votre audience mensuelle ?"})
	if res.Next != StepAudience {
		t.Errorf("free question moved to %s, want to stay", res.Next)
	}
	if !res.Generate {
		t.Error("free question should request generation")
	}
	if !triggered {
		t.Error("retrieval trigger not consulted")
	}
	if !res.RetrievalNeeded {
		t.Error("audience question should need retrieval")
	}
}

func TestWelcomeTextAdvancesToMainMenu(t *testing.T) {
	m := NewMachine()

	res := m.Transition(StepWelcome, nil, Input{Text: "bonjour, je veux faire de la publicité"})
	if res.Next != StepMainMenu {
		t.Errorf("step = %s, want %s", res.Next, StepMainMenu)
	}
	if len(res.Buttons) == 0 {
		t.Error("main menu buttons missing")
	}
}

func TestImmoneufPathTagsEntryPath(t *testing.T) {
	m := NewMachine()

	res := m.Transition(StepMainMenu, nil, Input{ButtonID: BtnImmoneuf})
	if res.Next != StepImmoneuf {
		t.Fatalf("step = %s, want %s", res.Next, StepImmoneuf)
	}
	if res.SlotDelta[SlotEntryPath] != "immoneuf" {
		t.Errorf("entry_path = %q, want immoneuf", res.SlotDelta[SlotEntryPath])
	}

	res = m.Transition(res.Next, res.SlotDelta, Input{ButtonID: BtnLeadForm})
	if res.Next != StepLeadForm {
		t.Fatalf("step = %s, want %s", res.Next, StepLeadForm)
	}
}
