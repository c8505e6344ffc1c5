package reporting

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/admitdesk/backoffice/pkg/lead"
	"github.com/admitdesk/backoffice/pkg/metrics"
	"github.com/admitdesk/backoffice/pkg/phone"
)

func TestExportLeads(t *testing.T) {
	e, err := NewExporter(t.TempDir(), phone.NewValidator("BD"), metrics.New())
	require.NoError(t, err)
	e.now = func() time.Time { return time.Date(2026, 8, 27, 10, 0, 0, 0, time.Local) }

	leads := []lead.Lead{
		{
			LeadID:           "LD-001",
			Name:             "Rahim Uddin",
			Phone:            "01712345678",
			InterestedCourse: "Graphics Design",
			Source:           "Facebook",
			Status:           lead.StatusInFollowUp,
			AssignedTo:       "Sadia Islam",
			NextFollowUpDate: "28/08/2026",
			FollowUps: []lead.FollowUp{
				{Note: "first call"},
				{Note: "will visit Sunday"},
			},
		},
	}

	path, err := e.ExportLeads(leads, "In Follow Up")
	require.NoError(t, err)
	assert.Contains(t, path, "leads_in_follow_up_20260827_100000.xlsx")

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Leads")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Lead ID", rows[0][0])

	got := rows[1]
	assert.Equal(t, "LD-001", got[0])
	assert.Equal(t, "+8801712345678", got[2], "phone is exported in E.164")
	assert.Equal(t, "2026-08-28", got[8], "next follow-up is exported canonical")
	assert.Equal(t, "will visit Sunday", got[9], "last note is the latest follow-up")
}

func TestExportEmptyListStillWritesHeaders(t *testing.T) {
	e, err := NewExporter(t.TempDir(), phone.NewValidator("BD"), metrics.New())
	require.NoError(t, err)

	path, err := e.ExportLeads(nil, "")
	require.NoError(t, err)
	assert.Contains(t, path, "leads_all_")

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Leads")
	require.NoError(t, err)
	require.Len(t, rows, 1)
}
