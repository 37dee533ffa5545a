package pdf

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/UzairFarooq1/NXS-jobcard/internal/model"
)

func testCard() model.JobCard {
	return model.JobCard{
		ID:                  "a3f0c1d2",
		CreatedAt:           time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC),
		EngineerName:        "Jane Mwangi",
		EngineerID:          "ENG-042",
		EngineerPhone:       "0712345678",
		ClientName:          "Peter Otieno",
		ClientCompany:       "Coast General Hospital",
		ClientPhone:         "0722000111",
		ClientEmail:         "procurement@coastgeneral.example",
		MachineName:         "Autoclave X300",
		MachineSerialNumber: "AX300-9912",
		FaultDescription:    "Chamber fails to reach sterilization temperature",
		ReportedDate:        time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC),
		ResolutionStatus:    model.StatusResolved,
		ResolutionDetails:   "Replaced faulty heating element and recalibrated",
		Recommendations:     "Schedule quarterly preventive maintenance visits",
	}
}

func TestRender_ProducesValidPDF(t *testing.T) {
	t.Parallel()

	data, err := NewRenderer().Render(testCard())
	require.NoError(t, err)
	require.NotEmpty(t, data)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestRender_WithAttachments(t *testing.T) {
	t.Parallel()

	card := testCard()
	card.StampImageURL = "https://blob.example/stamp-1.jpg"
	card.SignatureImageURL = "https://blob.example/signature-1.jpg"

	withAttachments, err := NewRenderer().Render(card)
	require.NoError(t, err)
	require.NotEmpty(t, withAttachments)
	assert.Equal(t, "%PDF", string(withAttachments[:4]))
}

func TestRender_OptionalFieldsEmpty(t *testing.T) {
	t.Parallel()

	card := testCard()
	card.MachineModel = ""
	card.PartsReplaced = ""

	data, err := NewRenderer().Render(card)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestRender_DeterministicForFixedClock(t *testing.T) {
	t.Parallel()

	fixed := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	r := &Renderer{now: func() time.Time { return fixed }}

	first, err := r.Render(testCard())
	require.NoError(t, err)
	second, err := r.Render(testCard())
	require.NoError(t, err)

	assert.Equal(t, first, second, "same record and clock render identical bytes")
}
