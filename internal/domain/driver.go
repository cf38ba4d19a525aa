package domain

// Driver is the subset of a driver profile the payout workflow reads.
type Driver struct {
	ID                  string
	Name                string
	BankAccountVerified bool
}
