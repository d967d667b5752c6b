// Package boardio reads and writes boards as JSON or YAML documents.
//
// # Format
//
// The JSON form matches the export of the Gantt board web app, so files move
// freely between the two:
//
//	{
//	  "projectTitle": "Gantt Chart",
//	  "primaryColor": "#6750A4",
//	  "sprints": [{"id": "s1", "title": "Sprint 1", "startDate": "2025-01-06",
//	               "endDate": "2025-01-20", "color": "#B5C4B1", "order": 0}],
//	  "members": [{"id": "m1", "name": "Member 1", "order": 0}],
//	  "tasks": [
//	    {"id": "t1", "title": "design", "memberId": "m1", "startX": 0, "width": 171.5, "rowIndex": 0},
//	    {"id": "t2", "title": "later", "memberId": null, "startX": 0, "width": 171.5,
//	     "rowIndex": 0, "storageOrder": 0}
//	  ],
//	  "exportedAt": "2025-01-06T10:00:00Z"
//	}
//
// A null (or missing) memberId places the task in the holding area. The YAML
// form uses the same keys.
//
// # Import
//
// [ReadJSON], [ReadYAML] and [ImportFile] use the default metrics; a [Reader]
// built with [NewReader] applies configured ones. All of them require the
// sprints, members and tasks arrays. Missing titles and colours take the board
// defaults. The decoded board is then normalised rather than rejected:
//
//   - tasks in unknown lanes move to the holding area
//   - widths that are not positive take the minimum task width
//   - negative or non-finite starts become 0
//   - overlapping tasks sharing a row are restacked
//
// Every adjustment is listed in the returned [Report]. Structural problems
// such as duplicate ids or malformed dates fail with an INVALID_FORMAT or
// INVALID_DATE error instead.
//
// # Export
//
// [WriteJSON], [WriteYAML] and [ExportFile] stamp the document with exportedAt.
package boardio
