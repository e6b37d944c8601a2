package ledger

import "github.com/shopspring/decimal"

// ComputeAccountBalance folds every payment into the account's opening balance.
// The fold is a plain sum, so payment order never changes the result.
func ComputeAccountBalance(payments []Payment, opening OpeningBalances, account AccountMode) decimal.Decimal {
	balance := opening.For(account)
	for i := range payments {
		balance = balance.Add(Effect(&payments[i], account))
	}
	return balance
}

// ComputeBalances returns the balance of every account in opening plus any
// account referenced by a payment
func ComputeBalances(payments []Payment, opening OpeningBalances) map[AccountMode]decimal.Decimal {
	balances := make(map[AccountMode]decimal.Decimal, len(opening))
	for mode, v := range opening {
		balances[mode] = v
	}
	for i := range payments {
		p := &payments[i]
		balances[p.Mode] = balances[p.Mode].Add(Effect(p, p.Mode))
		if p.IsContra() && p.TargetMode != "" && p.TargetMode != p.Mode {
			balances[p.TargetMode] = balances[p.TargetMode].Add(Effect(p, p.TargetMode))
		}
	}
	return balances
}

// Effect is the signed change a payment makes to one account.
// A contra voucher affects exactly its source and its target.
func Effect(p *Payment, account AccountMode) decimal.Decimal {
	effect := decimal.Zero
	if p.Mode == account {
		switch p.Type {
		case PaymentTypeIn:
			effect = effect.Add(p.Amount)
		case PaymentTypeOut:
			effect = effect.Sub(p.Amount)
		}
	}
	if p.IsContra() && p.TargetMode == account && p.Mode != account {
		effect = effect.Add(p.Amount)
	}
	return effect
}
