package repository

import (
	"database/sql"

	"github.com/UzairFarooq1/NXS-jobcard/internal/model"
)

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanJobCard reads one job card row in jobCardColumns order.
func scanJobCard(row rowScanner) (*model.JobCard, error) {
	var (
		card                         model.JobCard
		machineModel, partsReplaced  sql.NullString
		stampURL, signatureURL       sql.NullString
		emailSent, syncedFromOffline int
	)

	err := row.Scan(
		&card.ID, &card.CreatedAt,
		&card.EngineerName, &card.EngineerID, &card.EngineerPhone,
		&card.ClientName, &card.ClientCompany, &card.ClientPhone, &card.ClientEmail,
		&card.MachineName, &card.MachineSerialNumber, &machineModel,
		&card.FaultDescription, &card.ReportedDate,
		&card.ResolutionStatus, &card.ResolutionDetails,
		&partsReplaced, &card.Recommendations,
		&stampURL, &signatureURL,
		&emailSent, &syncedFromOffline)
	if err != nil {
		return nil, err
	}

	card.MachineModel = machineModel.String
	card.PartsReplaced = partsReplaced.String
	card.StampImageURL = stampURL.String
	card.SignatureImageURL = signatureURL.String
	card.EmailSent = emailSent != 0
	card.SyncedFromOffline = syncedFromOffline != 0
	return &card, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
