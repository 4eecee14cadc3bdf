package catalog

import "time"

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

// Builtin returns a fresh source holding the DevExpress community blog catalog.
func Builtin() *StaticSource {
	return NewStaticSource([]Item{
		{ID: 1, Title: "DevExtreme Roadmap (Angular, React, Vue, jQuery)", Author: "Vlada", PublicationDate: day(2023, time.February, 22), ImageKey: "devextreme_roadmap", URL: "https://community.devexpress.com/blogs/javascript/archive/2023/02/22/devextreme-components-roadmap-2023-1.aspx"},
		{ID: 2, Title: "Blazor Editors — Command Buttons", Author: "Margarita", PublicationDate: day(2023, time.February, 22), ImageKey: "blazor_editors_buttons", URL: "https://community.devexpress.com/blogs/aspnet/archive/2023/02/22/Blazor-Editors-Command-Buttons-v22-2.aspx"},
		{ID: 3, Title: "DevExpress Reports Roadmap (Survey Inside)", Author: "Dmitry", PublicationDate: day(2023, time.February, 21), ImageKey: "reporting_roadmap", URL: "https://community.devexpress.com/blogs/reporting/archive/2023/02/21/devexpress-reports-v23-1-june-2023-roadmap-survey-inside.aspx"},
		{ID: 4, Title: "Announcing DevExpress Mobile UI for .NET MAUI", Author: "Anthony", PublicationDate: day(2023, time.February, 21), ImageKey: "maui_release", URL: "https://community.devexpress.com/blogs/mobile/archive/2023/02/22/announcing-devexpress-mobile-ui-for-net-maui-v22-2.aspx"},
		{ID: 5, Title: "Office File API & Office-Inspired UI Controls Roadmap (Survey Inside)", Author: "Dmitry", PublicationDate: day(2023, time.February, 21), ImageKey: "office_roadmap", URL: "https://community.devexpress.com/blogs/office/archive/2023/02/21/office-file-api-office-inspired-ui-controls-v23-1-june-2023-roadmap-survey-inside.aspx"},
		{ID: 6, Title: "DevExpress BI Dashboard Roadmap (Survey Inside)", Author: "Dmitry", PublicationDate: day(2023, time.February, 21), ImageKey: "dashboard_roadmap", URL: "https://community.devexpress.com/blogs/analytics/archive/2023/02/21/devexpress-bi-dashboard-v23-1-june-2023-roadmap-survey-inside.aspx"},
		{ID: 7, Title: "Reporting — Serial Shipping Container Code (SSCC-18): A Solution for Walmart's Packaging Needs", Author: "Boris", PublicationDate: day(2023, time.February, 20), ImageKey: "reporting_serial_shipping", URL: "https://community.devexpress.com/blogs/reporting/archive/2023/02/20/reporting-serial-shipping-container-code-sscc-18-a-solution-for-walmart-39-s-packaging-needs.aspx"},
		{ID: 8, Title: "DevExpress.Drawing Graphics Library — Update — Package Dependencies and Font Libraries", Author: "Poline", PublicationDate: day(2023, time.February, 16), ImageKey: "devextreme__fonts", URL: "https://community.devexpress.com/blogs/news/archive/2023/02/16/devexpress-drawing-graphics-library-v22-2-4-update-package-dependencies-and-font-libraries.aspx"},
		{ID: 9, Title: "DevExpress WinForms Roadmap", Author: "Bogdan", PublicationDate: day(2023, time.February, 16), ImageKey: "winforms_roadmap", URL: "https://community.devexpress.com/blogs/winforms/archive/2023/02/16/devexpress-winforms-roadmap-23-1.aspx"},
		{ID: 10, Title: "XAF Roadmap (Cross-Platform .NET App UI & Web API Service)", Author: "Dennis", PublicationDate: day(2023, time.February, 9), ImageKey: "xaf_roadmap", URL: "https://community.devexpress.com/blogs/xaf/archive/2023/02/09/xaf-2023-1-roadmap-cross-platform-net-app-ui-and-web-api-service.aspx"},
		{ID: 11, Title: "Blazor Reporting — Quick Start with New Project Templates", Author: "Boris", PublicationDate: day(2023, time.February, 6), ImageKey: "blazor_reporting", URL: "https://community.devexpress.com/blogs/reporting/archive/2023/02/06/blazor-reporting-quick-start-with-new-project-templates.aspx"},
		{ID: 12, Title: "Blazor Toolbar — Data Binding", Author: "Elena", PublicationDate: day(2023, time.February, 1), ImageKey: "blazor_toolbar", URL: "https://community.devexpress.com/blogs/aspnet/archive/2023/02/01/Blazor-Toolbar-Data-Binding-_2800_v22.2_2900_.aspx"},
		{ID: 13, Title: "9 Tips to Reduce WPF App Startup Time", Author: "Andrey", PublicationDate: day(2023, time.January, 26), ImageKey: "wpf9tips", URL: "https://community.devexpress.com/blogs/wpf/archive/2023/01/26/9-tips-to-reduce-wpf-app-startup-time.aspx"},
		{ID: 14, Title: ".NET MAUI Controls — Material Design 3", Author: "Anthony", PublicationDate: day(2023, time.January, 25), ImageKey: "maui_md3", URL: "https://community.devexpress.com/blogs/mobile/archive/2023/01/25/net-maui-controls-material-design-3-v22-2.aspx"},
		{ID: 15, Title: "eXpress Persistent Objects (XPO) — Roadmap 2023", Author: "Dennis", PublicationDate: day(2023, time.January, 23), ImageKey: "xpo_roadmap", URL: "https://community.devexpress.com/blogs/xpo/archive/2023/01/23/xpo-2023-roadmap.aspx"},
		{ID: 16, Title: "Save Time: The Easiest, No-Code Way to Visualize Your SQL Data (v23.1)", Author: "Poline", PublicationDate: day(2023, time.January, 23), ImageKey: "analytics_easy", URL: "https://community.devexpress.com/blogs/analytics/archive/2023/01/23/save-time-the-easiest-no-code-way-to-visualize-your-sql-data-v23-1.aspx"},
		{ID: 17, Title: "DevExpress WPF Controls — 2023 Roadmap", Author: "Elena", PublicationDate: day(2023, time.January, 20), ImageKey: "wpf_roadmap", URL: "https://community.devexpress.com/blogs/wpf/archive/2023/01/20/devexpress-wpf-controls-2023-roadmap.aspx"},
		{ID: 18, Title: "Blazor Data Grid — Master-Detail View", Author: "Margarita", PublicationDate: day(2023, time.January, 19), ImageKey: "blazor_datagrid", URL: "https://community.devexpress.com/blogs/aspnet/archive/2023/01/19/Blazor-Data-Grid-Master-Detail-View.aspx"},
		{ID: 19, Title: "WPF — 2023 Roadmap", Author: "Elena", PublicationDate: day(2023, time.January, 17), ImageKey: "wpf_roadmap_23", URL: "https://community.devexpress.com/blogs/wpf/archive/2023/01/17/wpf-2023-roadmap.aspx"},
		{ID: 20, Title: "Cross-Platform Products — 2023 Roadmap", Author: "Dmitry", PublicationDate: day(2023, time.January, 16), ImageKey: "cross_platform_roadmap", URL: "https://community.devexpress.com/blogs/xamarin/archive/2023/01/16/cross-platform-products-2023-roadmap.aspx"},
		{ID: 21, Title: "Happy New Year! What’s In Store for 2023", Author: "Julian", PublicationDate: day(2023, time.January, 6), ImageKey: "2023_new_year", URL: "https://community.devexpress.com/blogs/news/archive/2023/01/06/happy-new-year-what_2700_s-in-store-for-2023.aspx"},
		{ID: 22, Title: "DevExpress WinUI 3 Controls (v22.2) — How to Get Started", Author: "Alex", PublicationDate: day(2023, time.January, 5), ImageKey: "winui_3_controls", URL: "https://community.devexpress.com/blogs/winui/archive/2023/01/05/devexpress-winui-3-controls-v22-2-how-to-get-started.aspx"},
	})
}
