package forms

import (
	"testing"

	"github.com/Ashfaaq98/docket-console/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validInput() model.CaseInput {
	return model.CaseInput{
		FileNo:     "F-101",
		CaseNo:     "221/2024",
		Date:       "2024-03-01",
		Court:      "Metropolitan Sessions Judge Court",
		FirstParty: "Karim Uddin",
	}
}

func TestValidateCaseAccepts(t *testing.T) {
	assert.Nil(t, ValidateCase(validInput()))
}

func TestValidateCaseMarksExactlyMissingFields(t *testing.T) {
	tests := []struct {
		name  string
		clear func(*model.CaseInput)
		want  []string
	}{
		{"file number", func(in *model.CaseInput) { in.FileNo = "" }, []string{"fileNo"}},
		{"case number", func(in *model.CaseInput) { in.CaseNo = "  " }, []string{"caseNo"}},
		{"date", func(in *model.CaseInput) { in.Date = "" }, []string{"date"}},
		{"court", func(in *model.CaseInput) { in.Court = "" }, []string{"court"}},
		{"first party", func(in *model.CaseInput) { in.FirstParty = "" }, []string{"firstParty"}},
		{"two fields", func(in *model.CaseInput) { in.Court = ""; in.FileNo = "" }, []string{"court", "fileNo"}},
		{"optional only", func(in *model.CaseInput) { in.Company = ""; in.SecondParty = "" }, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.clear(&in)
			fe := ValidateCase(in)
			if tt.want == nil {
				assert.Nil(t, fe)
				return
			}
			require.NotNil(t, fe)
			assert.Equal(t, tt.want, fe.Fields())
			for _, f := range tt.want {
				assert.Equal(t, MsgRequired, fe[f])
			}
		})
	}
}

func TestValidateCaseAllEmpty(t *testing.T) {
	fe := ValidateCase(model.CaseInput{})
	assert.Equal(t, []string{"caseNo", "court", "date", "fileNo", "firstParty"}, fe.Fields())
}

func TestMerge(t *testing.T) {
	merged := Merge(FieldErrors{"date": MsgRequired}, map[string]string{"caseNo": "already exists", "court": ""})
	assert.Equal(t, "already exists", merged["caseNo"])
	assert.Equal(t, "Invalid value", merged["court"])
	assert.True(t, merged.Has("date"))
	assert.Nil(t, Merge(nil, nil))
}

func TestValidateNameAndNote(t *testing.T) {
	_, err := ValidateName("   ")
	assert.ErrorIs(t, err, ErrNameRequired)

	name, err := ValidateName("  Dhaka Court ")
	require.NoError(t, err)
	assert.Equal(t, "Dhaka Court", name)

	_, err = ValidateNote("")
	assert.ErrorIs(t, err, ErrNoteRequired)
	_, err = ValidateNoteEdit("\n")
	assert.ErrorIs(t, err, ErrNoteEmpty)
}
