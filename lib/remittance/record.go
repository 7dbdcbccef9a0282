package remittance

import (
	"fmt"

	"remitnet.io/remit/lib/common"
	"remitnet.io/remit/lib/storage"
)

// Record is the durable trace of one remittance. the storage should
// support,
//  * get list by sent order:
//
// models
//  * 'sent'
// 	- 'rm-sent-<sequential uuid1>': `Record`
const RecordPrefixSent string = "rm-sent-"

// Corridor tags are analytics-only labels; they carry no transfer
// semantics.
type Record struct {
	From      string        `json:"from"`
	To        string        `json:"to"`
	NetAmount common.Amount `json:"net_amount"`
	Fee       common.Amount `json:"fee"`
	Corridor  string        `json:"corridor"`
	SentAt    string        `json:"sent_at"`
}

func NewRecord(from, to string, netAmount, fee common.Amount, corridor string) *Record {
	return &Record{
		From:      from,
		To:        to,
		NetAmount: netAmount,
		Fee:       fee,
		Corridor:  corridor,
		SentAt:    common.NowISO8601(),
	}
}

func (r *Record) String() string {
	return string(common.MustJSONMarshal(r))
}

func (r *Record) Serialize() (encoded []byte, err error) {
	encoded, err = common.EncodeJSONValue(r)
	return
}

func GetRecordSentKey(sent string) string {
	return fmt.Sprintf("%s%s", RecordPrefixSent, sent)
}

func (r *Record) Save(st *storage.LevelDBBackend) error {
	return st.New(GetRecordSentKey(common.GetUniqueIDFromUUID()), r)
}

func GetRecordsBySent(st *storage.LevelDBBackend, options storage.ListOptions) (func() (Record, bool), func()) {
	iterFunc, closeFunc := st.GetIterator(RecordPrefixSent, options)

	return (func() (Record, bool) {
			item, hasNext := iterFunc()
			if !hasNext {
				return Record{}, false
			}

			var r Record
			common.MustUnmarshalJSON(item.Value, &r)
			return r, hasNext
		}), (func() {
			closeFunc()
		})
}
