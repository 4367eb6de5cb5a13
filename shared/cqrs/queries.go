package cqrs

// ---------- Customer queries ----------

// GetProfileQuery fetches a customer profile merged with transaction info.
type GetProfileQuery struct {
	CustomerID string
	Token      string
}

// GetProfileByUsernameQuery is the self-profile variant keyed by username.
type GetProfileByUsernameQuery struct {
	Username string
	Token    string
}

// GetBasicQuery fetches the minimal customer projection for dataset export.
type GetBasicQuery struct {
	CustomerID string
}

// LookupIDQuery resolves a username to a customer identifier.
type LookupIDQuery struct {
	Username string
}

// ListCustomersQuery fetches one page of customers, ordered by last name.
type ListCustomersQuery struct {
	Cursor string
}

// ---------- Transaction queries ----------

// TransactionInfoQuery aggregates a customer's previous-month activity.
type TransactionInfoQuery struct {
	CustomerID string
}

// ListTransactionsQuery fetches one page of the ledger, newest first.
type ListTransactionsQuery struct {
	Cursor string
}

// DatasetQuery selects a month window of the ledger for bulk export.
type DatasetQuery struct {
	RewindMonths int
	Token        string
}
