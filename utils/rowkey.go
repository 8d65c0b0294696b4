package utils

// ClosestRowAfter returns the smallest row key sorting strictly after row.
// Scans resume from it so the last row of a batch is not returned twice.
func ClosestRowAfter(row []byte) []byte {
	next := make([]byte, len(row), len(row)+1)
	copy(next, row)
	return append(next, 0x00)
}

// PrefixStopRow returns the exclusive stop row of a scan over every key starting with prefix.
// A nil result means the scan runs to the end of the table.
func PrefixStopRow(prefix []byte) []byte {
	stop := make([]byte, len(prefix))
	copy(stop, prefix)
	for i := len(stop) - 1; i >= 0; i-- {
		if stop[i] < 0xff {
			stop[i]++
			return stop[:i+1]
		}
	}
	return nil
}

// BatchSize returns how many rows to ask for next when limit rows are wanted in total and
// fetched were already returned. Zero means the scan is done. A limit <= 0 means unlimited.
func BatchSize(batch, limit, fetched int32) int32 {
	if limit <= 0 {
		return batch
	}
	diff := limit - fetched
	if diff <= 0 {
		return 0
	}
	if batch < diff {
		return batch
	}
	return diff
}
