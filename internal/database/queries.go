package database

const (
	// User queries
	queryInsertUser = `
		INSERT OR IGNORE INTO users (id, name) VALUES (?, ?)`

	queryGetUserByID = `
		SELECT id, name, created_at, updated_at
		FROM users
		WHERE id = ?`

	// Account queries
	queryInsertAccount = `
		INSERT INTO accounts (id, user_id, account_number, status, balance, version, registered_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	queryGetAccountByNumber = `
		SELECT id, user_id, account_number, status, balance, version,
		       registered_at, unregistered_at, created_at, updated_at
		FROM accounts
		WHERE account_number = ?`

	queryGetAccountsByUserID = `
		SELECT id, user_id, account_number, status, balance, version,
		       registered_at, unregistered_at, created_at, updated_at
		FROM accounts
		WHERE user_id = ?
		ORDER BY registered_at`

	queryCountAccountsByUserID = `
		SELECT COUNT(*)
		FROM accounts
		WHERE user_id = ? AND status = ?`

	queryGetLatestAccountNumber = `
		SELECT account_number
		FROM accounts
		ORDER BY CAST(account_number AS INTEGER) DESC
		LIMIT 1`

	queryUpdateAccountStatus = `
		UPDATE accounts
		SET status = ?, unregistered_at = ?, updated_at = CURRENT_TIMESTAMP
		WHERE account_number = ?`

	queryUpdateAccountBalance = `
		UPDATE accounts
		SET balance = ?, version = version + 1, updated_at = CURRENT_TIMESTAMP
		WHERE account_number = ? AND version = ?`

	// Transaction queries
	queryInsertTransaction = `
		INSERT INTO transactions (
			id, transaction_id, account_number, transaction_type, transaction_result,
			amount, balance_snapshot, transacted_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	queryGetTransactionByTxID = `
		SELECT id, transaction_id, account_number, transaction_type, transaction_result,
		       amount, balance_snapshot, transacted_at, created_at
		FROM transactions
		WHERE transaction_id = ?`

	queryGetTransactionsByAccount = `
		SELECT id, transaction_id, account_number, transaction_type, transaction_result,
		       amount, balance_snapshot, transacted_at, created_at
		FROM transactions
		WHERE account_number = ?
		ORDER BY transacted_at DESC
		LIMIT ? OFFSET ?`
)
