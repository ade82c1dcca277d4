package importer

// Observer is notified as a commit batch progresses. Implementations must not
// block for long; they run inline with the commit loop.
type Observer interface {
	RowCommitted(batchID string, t ImportType, rowIndex int, recordID string)
	RowFailed(batchID string, t ImportType, rowIndex int, err error)
	BatchCompleted(batchID string, t ImportType, result CommitResult)
}

// Observers fans every notification out to each member.
type Observers []Observer

// RowCommitted implements Observer.
func (o Observers) RowCommitted(batchID string, t ImportType, rowIndex int, recordID string) {
	for _, obs := range o {
		obs.RowCommitted(batchID, t, rowIndex, recordID)
	}
}

// RowFailed implements Observer.
func (o Observers) RowFailed(batchID string, t ImportType, rowIndex int, err error) {
	for _, obs := range o {
		obs.RowFailed(batchID, t, rowIndex, err)
	}
}

// BatchCompleted implements Observer.
func (o Observers) BatchCompleted(batchID string, t ImportType, result CommitResult) {
	for _, obs := range o {
		obs.BatchCompleted(batchID, t, result)
	}
}
