package pipeline

// Stage names one step of an enhancement run.
type Stage string

// Stages in execution order.
const (
	StageExtract   Stage = "extract"
	StageStructure Stage = "structure"
	StageRender    Stage = "render"
)

// StageDefinition describes a stage and the classification its failures get.
type StageDefinition struct {
	Name        Stage
	Description string
	Failure     Kind
}

// Stages lists the stages of a run in the order they execute.
var Stages = []StageDefinition{
	{Name: StageExtract, Description: "Extracting text from PDF", Failure: KindExtraction},
	{Name: StageStructure, Description: "Rewriting résumé with the language model", Failure: KindProvider},
	{Name: StageRender, Description: "Rendering improved PDF", Failure: KindRender},
}

// Definition returns the definition for name.
func Definition(name Stage) (StageDefinition, bool) {
	for _, def := range Stages {
		if def.Name == name {
			return def, true
		}
	}
	return StageDefinition{}, false
}

// position returns the 1-based index of name within Stages.
func position(name Stage) int {
	for i, def := range Stages {
		if def.Name == name {
			return i + 1
		}
	}
	return 0
}
