package engine

// Only limit orders are supported, across an arbitrary number of trading
// pairs identified by their pair string — there is no AssetType distinction
// and no MarketOrder, iceberg, or stop order type here.
