package events

// EventData is the interface that all event data types must implement
// This allows for type-safe event data while maintaining flexibility
type EventData interface {
	// EventType returns the event type this data is associated with
	EventType() EventType
}

// TransactionRecordedData contains data for TransactionRecorded events
type TransactionRecordedData struct {
	TransactionID string  `json:"transaction_id"`
	AccountID     string  `json:"account_id"`
	Type          string  `json:"type"`
	Amount        float64 `json:"amount"`
}

// EventType returns the event type for TransactionRecordedData
func (d *TransactionRecordedData) EventType() EventType {
	return TransactionRecorded
}

// AccountArchivedData contains data for AccountArchived events
type AccountArchivedData struct {
	AccountID string `json:"account_id"`
}

// EventType returns the event type for AccountArchivedData
func (d *AccountArchivedData) EventType() EventType {
	return AccountArchived
}

// GoalCompletedData contains data for GoalCompleted events
type GoalCompletedData struct {
	GoalID        string  `json:"goal_id"`
	TargetAmount  float64 `json:"target_amount"`
	CurrentAmount float64 `json:"current_amount"`
}

// EventType returns the event type for GoalCompletedData
func (d *GoalCompletedData) EventType() EventType {
	return GoalCompleted
}

// MigrationCompletedData contains data for MigrationCompleted events
type MigrationCompletedData struct {
	FromUserID   string `json:"from_user_id"`
	ToUserID     string `json:"to_user_id"`
	Transactions int64  `json:"transactions"`
	Budgets      int64  `json:"budgets"`
	Goals        int64  `json:"goals"`
	Accounts     int64  `json:"accounts"`
	Categories   int64  `json:"categories"`
}

// EventType returns the event type for MigrationCompletedData
func (d *MigrationCompletedData) EventType() EventType {
	return MigrationCompleted
}

// MigrationFailedData contains data for MigrationFailed events
type MigrationFailedData struct {
	FromUserID string `json:"from_user_id"`
	Error      string `json:"error"`
}

// EventType returns the event type for MigrationFailedData
func (d *MigrationFailedData) EventType() EventType {
	return MigrationFailed
}

// MaintenanceFinishedData contains data for MaintenanceFinished events
type MaintenanceFinishedData struct {
	DurationMs int64 `json:"duration_ms"`
	Healthy    bool  `json:"healthy"`
}

// EventType returns the event type for MaintenanceFinishedData
func (d *MaintenanceFinishedData) EventType() EventType {
	return MaintenanceFinished
}

// BackupCompletedData contains data for BackupCompleted events
type BackupCompletedData struct {
	Filename  string `json:"filename"`
	SizeBytes int64  `json:"size_bytes"`
}

// EventType returns the event type for BackupCompletedData
func (d *BackupCompletedData) EventType() EventType {
	return BackupCompleted
}
