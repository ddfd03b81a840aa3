package worker

import (
	"encoding/json"
	"strconv"
)

// maxErrDataLen bounds the serialized size of exception user-data before it's
// replaced with a truncated preview. original_source defines this as
// MAX_ERR_DATA_LEN in a constants module that wasn't part of the retrieved
// source; 10000 is chosen to keep a FAILED snapshot body well under typical
// reverse-proxy response-size limits while still showing a useful payload.
const maxErrDataLen = 10000

const errDataPreviewLen = 150

// SanitizeExceptionData ensures data is representable in a JSON snapshot
// (spec.md §4.4 "Exception handling", grounded on original_source's
// sanitize_dict_for_json): a payload encoding/json cannot marshal (a channel
// or function value, for instance) collapses to a serialisation-failure
// marker, and an oversized payload collapses to an error marker carrying a
// short preview.
func SanitizeExceptionData(data any) any {
	if data == nil {
		return nil
	}

	encoded, err := json.Marshal(data)
	if err != nil {
		return map[string]string{"error": "json_serialisation_failed, user data could not be serialised"}
	}

	if len(encoded) > maxErrDataLen {
		return map[string]string{
			"error": "json_serialisation_failed, user data larger than max of " +
				strconv.Itoa(maxErrDataLen) + " characters. Data preview: " + previewShape(encoded),
		}
	}

	var roundTripped any
	if err := json.Unmarshal(encoded, &roundTripped); err != nil {
		return map[string]string{"error": "json_serialisation_failed, user data could not be serialised"}
	}
	return roundTripped
}

// previewShape returns the first errDataPreviewLen characters of the
// serialized payload, grounded on original_source/as_models/util.py's
// json_data[0:150] preview.
func previewShape(encoded []byte) string {
	s := string(encoded)
	if len(s) > errDataPreviewLen {
		s = s[:errDataPreviewLen]
	}
	return s
}
